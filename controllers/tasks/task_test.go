package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Diome1804/projet-todo/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createJSON(ctrl *Controller, userID uint, payload string) *httptest.ResponseRecorder {
	return serve(ctrl, userID, http.MethodPost, "/task",
		bytes.NewBufferString(payload), "application/json",
		func(r *mux.Router) {
			r.HandleFunc("/task", ctrl.CreateHandler).Methods(http.MethodPost)
		})
}

func TestCreateHandler_JSON(t *testing.T) {
	ctrl, db := newTestController(t)
	alice := seedUser(t, db, "alice@example.com", "Alice")

	rec := createJSON(ctrl, alice, `{"name": "Buy milk", "description": "Two liters"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task models.Task
	require.NoError(t, db.First(&task).Error)
	assert.Equal(t, "Buy milk", task.Name)
	assert.Equal(t, alice, task.UserID)
	assert.False(t, task.Completed)

	// creation lands in the audit log
	var logs int64
	require.NoError(t, db.Model(&models.ActionLog{}).
		Where("task_id = ? AND actor_id = ? AND action = ?", task.ID, alice, models.ActionCreate).
		Count(&logs).Error)
	assert.EqualValues(t, 1, logs)
}

func TestCreateHandler_RequiresNameAndDescription(t *testing.T) {
	ctrl, db := newTestController(t)
	alice := seedUser(t, db, "alice@example.com", "Alice")

	rec := createJSON(ctrl, alice, `{"description": "No name"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = createJSON(ctrl, alice, `{"name": "No description"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteHandler_MissingTaskIs404(t *testing.T) {
	ctrl, db := newTestController(t)
	alice := seedUser(t, db, "alice@example.com", "Alice")

	rec := serve(ctrl, alice, http.MethodDelete, "/task/9999", nil, "",
		func(r *mux.Router) {
			r.HandleFunc("/task/{id}", ctrl.DeleteHandler).Methods(http.MethodDelete)
		})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestGetHandler_Visibility(t *testing.T) {
	ctrl, db := newTestController(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	grantee := seedUser(t, db, "grantee@example.com", "Grantee")
	stranger := seedUser(t, db, "stranger@example.com", "Stranger")
	task := seedTask(t, db, owner, "Private")

	require.NoError(t, db.Create(&models.TaskPermission{
		TaskID: task.ID, GranteeID: grantee, CanEdit: true,
	}).Error)

	get := func(caller, id uint) *httptest.ResponseRecorder {
		return serve(ctrl, caller, http.MethodGet, fmt.Sprintf("/task/%d", id), nil, "",
			func(r *mux.Router) {
				r.HandleFunc("/task/{id}", ctrl.GetHandler).Methods(http.MethodGet)
			})
	}

	assert.Equal(t, http.StatusOK, get(owner, task.ID).Code)
	assert.Equal(t, http.StatusOK, get(grantee, task.ID).Code)
	assert.Equal(t, http.StatusForbidden, get(stranger, task.ID).Code)
	assert.Equal(t, http.StatusNotFound, get(owner, 9999).Code)
}

func TestToggleHandler(t *testing.T) {
	ctrl, db := newTestController(t)
	owner := seedUser(t, db, "owner@example.com", "Owner")
	stranger := seedUser(t, db, "stranger@example.com", "Stranger")
	task := seedTask(t, db, owner, "Flip me")

	toggle := func(caller, id uint) *httptest.ResponseRecorder {
		return serve(ctrl, caller, http.MethodPatch, fmt.Sprintf("/task/%d/completed", id), nil, "",
			func(r *mux.Router) {
				r.HandleFunc("/task/{id}/completed", ctrl.ToggleHandler).Methods(http.MethodPatch)
			})
	}

	rec := toggle(owner, task.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Completed)

	assert.Equal(t, http.StatusForbidden, toggle(stranger, task.ID).Code)
	assert.Equal(t, http.StatusNotFound, toggle(owner, 9999).Code)

	// each flip is audited with its direction
	var entry models.ActionLog
	require.NoError(t, db.Where("task_id = ? AND action = ?", task.ID, models.ActionComplete).
		First(&entry).Error)
	require.NotNil(t, entry.Details)
	assert.Equal(t, "completed", *entry.Details)
}

func TestListHandler(t *testing.T) {
	ctrl, db := newTestController(t)
	alice := seedUser(t, db, "alice@example.com", "Alice")
	for i := 0; i < 7; i++ {
		seedTask(t, db, alice, fmt.Sprintf("Task %d", i))
	}

	rec := serve(ctrl, alice, http.MethodGet, "/task?page=2&limit=3", nil, "",
		func(r *mux.Router) {
			r.HandleFunc("/task", ctrl.ListHandler).Methods(http.MethodGet)
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Tasks      []models.Task `json:"tasks"`
			Pagination struct {
				CurrentPage int   `json:"currentPage"`
				TotalPages  int   `json:"totalPages"`
				TotalItems  int64 `json:"totalItems"`
				HasNextPage bool  `json:"hasNextPage"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Tasks, 3)
	assert.Equal(t, 2, resp.Data.Pagination.CurrentPage)
	assert.Equal(t, 3, resp.Data.Pagination.TotalPages)
	assert.EqualValues(t, 7, resp.Data.Pagination.TotalItems)
	assert.True(t, resp.Data.Pagination.HasNextPage)
}
