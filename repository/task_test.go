package repository

import (
	"fmt"
	"testing"

	"github.com/Diome1804/projet-todo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanEditAndCanDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	stranger := seedUser(t, db, "stranger@example.com", "Stranger")
	task := seedTask(t, db, owner, "Plan trip", false)

	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, boolPtr(true), nil))

	ok, err := repo.CanEdit(task.ID, owner)
	require.NoError(t, err)
	assert.True(t, ok, "owner can always edit")

	ok, err = repo.CanDelete(task.ID, owner)
	require.NoError(t, err)
	assert.True(t, ok, "owner can always delete")

	ok, err = repo.CanEdit(task.ID, grantee)
	require.NoError(t, err)
	assert.True(t, ok, "edit-only grant allows edit")

	ok, err = repo.CanDelete(task.ID, grantee)
	require.NoError(t, err)
	assert.False(t, ok, "edit-only grant does not allow delete")

	ok, err = repo.CanEdit(task.ID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CanEdit(9999, owner)
	require.NoError(t, err)
	assert.False(t, ok, "missing task yields false, not an error")
}

func TestGrantPermissionMergesOmittedFlags(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	task := seedTask(t, db, owner, "Shared task", false)

	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, boolPtr(true), nil))

	// re-grant touching only canDelete must not wipe canEdit
	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, nil, boolPtr(true)))

	var perm models.TaskPermission
	require.NoError(t, db.Where("task_id = ? AND grantee_id = ?", task.ID, grantee).First(&perm).Error)
	assert.True(t, perm.CanEdit)
	assert.True(t, perm.CanDelete)

	var count int64
	require.NoError(t, db.Model(&models.TaskPermission{}).
		Where("task_id = ? AND grantee_id = ?", task.ID, grantee).Count(&count).Error)
	assert.EqualValues(t, 1, count, "repeated grants keep a single row")
}

func TestGrantPermissionBothFalseRemovesRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	task := seedTask(t, db, owner, "Shared task", false)

	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, boolPtr(true), boolPtr(true)))
	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, boolPtr(false), boolPtr(false)))

	var count int64
	require.NoError(t, db.Model(&models.TaskPermission{}).
		Where("task_id = ? AND grantee_id = ?", task.ID, grantee).Count(&count).Error)
	assert.EqualValues(t, 0, count, "a grant with no rights must not be stored")

	// a fresh grant with both flags omitted resolves to both-false as well
	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, nil, nil))
	require.NoError(t, db.Model(&models.TaskPermission{}).
		Where("task_id = ? AND grantee_id = ?", task.ID, grantee).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestGrantPermissionAuthorization(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	task := seedTask(t, db, owner, "Private task", false)

	err := repo.GrantPermission(task.ID, grantee, owner, boolPtr(true), nil)
	assert.ErrorIs(t, err, ErrNotAllowed, "only the owner may grant")

	err = repo.GrantPermission(9999, owner, grantee, boolPtr(true), nil)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRevokePermissionIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	task := seedTask(t, db, owner, "Shared task", false)

	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, boolPtr(true), boolPtr(true)))
	require.NoError(t, repo.RevokePermission(task.ID, owner, grantee))

	ok, err := repo.CanEdit(task.ID, grantee)
	require.NoError(t, err)
	assert.False(t, ok)

	// revoking again, or revoking a grant that never existed, succeeds quietly
	require.NoError(t, repo.RevokePermission(task.ID, owner, grantee))

	err = repo.RevokePermission(task.ID, grantee, owner)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestListPageScopeAndFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	alice := seedUser(t, db, "alice@example.com", "Alice")
	bob := seedUser(t, db, "bob@example.com", "Bob")

	mine := seedTask(t, db, alice, "Write Report", false)
	done := seedTask(t, db, alice, "Clean desk", true)
	shared := seedTask(t, db, bob, "Review budget", false)
	seedTask(t, db, bob, "Bob private", false)

	require.NoError(t, repo.GrantPermission(shared.ID, bob, alice, boolPtr(true), nil))

	tasks, p, err := repo.ListPage(alice, 1, 10, "", "all")
	require.NoError(t, err)
	assert.EqualValues(t, 3, p.TotalItems, "owned plus granted, never other users' tasks")
	ids := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.ElementsMatch(t, []uint{mine.ID, done.ID, shared.ID}, ids)

	// search is case-insensitive and matches name or description
	tasks, _, err = repo.ListPage(alice, 1, 10, "rEpOrT", "all")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)

	tasks, _, err = repo.ListPage(alice, 1, 10, "", "completed")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, done.ID, tasks[0].ID)

	tasks, _, err = repo.ListPage(alice, 1, 10, "", "pending")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	// unknown status values behave like "all"
	_, p, err = repo.ListPage(alice, 1, 10, "", "bogus")
	require.NoError(t, err)
	assert.EqualValues(t, 3, p.TotalItems)
}

func TestListPagePagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	alice := seedUser(t, db, "alice@example.com", "Alice")
	var ids []uint
	for i := 1; i <= 12; i++ {
		task := seedTask(t, db, alice, fmt.Sprintf("Task %02d", i), false)
		ids = append(ids, task.ID)
	}

	tasks, p, err := repo.ListPage(alice, 2, 5, "", "all")
	require.NoError(t, err)

	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.EqualValues(t, 12, p.TotalItems)
	assert.Equal(t, 5, p.ItemsPerPage)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	// newest first: page two holds the 6th through 10th newest
	require.Len(t, tasks, 5)
	assert.Equal(t, ids[6], tasks[0].ID)
	assert.Equal(t, ids[2], tasks[4].ID)

	// a page past the end is empty but keeps the metadata consistent
	tasks, p, err = repo.ListPage(alice, 9, 5, "", "all")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestListPageAnnotatesCallerGrant(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	alice := seedUser(t, db, "alice@example.com", "Alice")
	bob := seedUser(t, db, "bob@example.com", "Bob")
	carol := seedUser(t, db, "carol@example.com", "Carol")
	shared := seedTask(t, db, bob, "Team task", false)

	require.NoError(t, repo.GrantPermission(shared.ID, bob, alice, boolPtr(true), nil))
	require.NoError(t, repo.GrantPermission(shared.ID, bob, carol, boolPtr(true), boolPtr(true)))

	tasks, _, err := repo.ListPage(alice, 1, 10, "", "all")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// only the caller's own grant rides along, never other grantees'
	require.Len(t, tasks[0].Permissions, 1)
	assert.Equal(t, alice, tasks[0].Permissions[0].GranteeID)
	assert.True(t, tasks[0].Permissions[0].CanEdit)
	assert.False(t, tasks[0].Permissions[0].CanDelete)
}

func TestUpdateRequiresEditRights(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	stranger := seedUser(t, db, "stranger@example.com", "Stranger")
	task := seedTask(t, db, owner, "Original", false)

	require.NoError(t, repo.GrantPermission(task.ID, owner, grantee, boolPtr(true), nil))

	name := "Renamed"
	updated, err := repo.Update(task.ID, grantee, TaskPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, task.Description, updated.Description, "untouched fields survive a partial update")

	_, err = repo.Update(task.ID, stranger, TaskPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestDeleteRemovesPermissionRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	editGrantee := seedUser(t, db, "edit@example.com", "EditOnly")
	deleteGrantee := seedUser(t, db, "delete@example.com", "Deleter")
	task := seedTask(t, db, owner, "Doomed", false)

	require.NoError(t, repo.GrantPermission(task.ID, owner, editGrantee, boolPtr(true), nil))
	require.NoError(t, repo.GrantPermission(task.ID, owner, deleteGrantee, nil, boolPtr(true)))

	err := repo.Delete(task.ID, editGrantee)
	assert.ErrorIs(t, err, ErrNotAllowed, "edit-only grant cannot delete")

	require.NoError(t, repo.Delete(task.ID, deleteGrantee))

	_, err = repo.FindByID(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	var perms int64
	require.NoError(t, db.Model(&models.TaskPermission{}).Where("task_id = ?", task.ID).Count(&perms).Error)
	assert.EqualValues(t, 0, perms, "grants must not outlive the task")
}

func TestDeleteMissingTaskIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	stranger := seedUser(t, db, "stranger@example.com", "Stranger")

	// a missing task reads as not-found even for a caller with no rights
	err := repo.Delete(9999, stranger)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestToggleCompleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	owner := seedUser(t, db, "owner@example.com", "Owner")
	stranger := seedUser(t, db, "stranger@example.com", "Stranger")
	task := seedTask(t, db, owner, "Flip me", false)

	toggled, err := repo.ToggleCompleted(task.ID, owner)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = repo.ToggleCompleted(task.ID, owner)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = repo.ToggleCompleted(task.ID, stranger)
	assert.ErrorIs(t, err, ErrNotAllowed)

	// a missing task reads as not-found even for a caller with no rights
	_, err = repo.ToggleCompleted(9999, stranger)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
