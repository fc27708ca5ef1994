package tasks

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Diome1804/projet-todo/middleware"
	"github.com/Diome1804/projet-todo/models"
	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"
)

const maxAttachmentBytes = 5 << 20 // 5MB per file, matching the front end cap

var photoExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

var audioExts = map[string]bool{
	".webm": true, ".wav": true, ".mp3": true, ".ogg": true,
}

// GET /task/{id}
func (c *Controller) GetHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id := taskIDFromRequest(r)
	if id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	task, err := c.Tasks.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	visible, err := c.Tasks.Visible(id, uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if !visible {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Not authorized"})
		return
	}

	data := map[string]interface{}{"task": task}
	// short-lived download links for stored attachments
	if task.PhotoURL != nil && *task.PhotoURL != "" {
		if url, err := utils.GenerateSignedURL(*task.PhotoURL, time.Hour); err == nil {
			data["photo_signed_url"] = url
		}
	}
	if task.AudioURL != nil && *task.AudioURL != "" {
		if url, err := utils.GenerateSignedURL(*task.AudioURL, time.Hour); err == nil {
			data["audio_signed_url"] = url
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}

// storeAttachment validates and uploads one multipart file, returning the
// stored object key.
func storeAttachment(file multipart.File, header *multipart.FileHeader, allowed map[string]bool, prefix string, uid uint) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	if header.Size > maxAttachmentBytes {
		return "", fmt.Errorf("file exceeds the 5MB limit")
	}

	key := fmt.Sprintf("%s/%d_%d%s", prefix, uid, time.Now().UnixNano(), ext)
	if err := utils.UploadToS3(key, file); err != nil {
		return "", err
	}
	return key, nil
}

// createInput is the validated shape of a create request, whether it arrived
// as JSON or as a multipart form.
type createInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
	PhotoURL    *string
	AudioURL    *string
}

// POST /task — multipart with optional photo/audio files, or plain JSON.
func (c *Controller) CreateHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var in createInput
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(12 << 20); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
			return
		}
		in.Name = strings.TrimSpace(r.FormValue("name"))
		in.Description = strings.TrimSpace(r.FormValue("description"))
		if v, ok := coerceBool(r.FormValue("completed")); ok {
			in.Completed = v
		}
		if err := utils.ValidateStruct(&in); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Validation error", Issues: []string{err.Error()}})
			return
		}

		if file, header, err := r.FormFile("photo"); err == nil && header != nil {
			key, err := storeAttachment(file, header, photoExts, "photos", uid)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
				return
			}
			in.PhotoURL = &key
		}
		if file, header, err := r.FormFile("audio"); err == nil && header != nil {
			key, err := storeAttachment(file, header, audioExts, "audio", uid)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
				return
			}
			in.AudioURL = &key
		}
	} else {
		if err := middleware.ValidateJSON(w, r, &in); err != nil {
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		in.Description = strings.TrimSpace(in.Description)
	}

	task := models.Task{
		Name:        in.Name,
		Description: in.Description,
		Completed:   in.Completed,
		PhotoURL:    in.PhotoURL,
		AudioURL:    in.AudioURL,
		UserID:      uid,
	}
	if err := c.Tasks.Create(&task); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create task"})
		return
	}

	c.logAction(task.ID, uid, models.ActionCreate, "created "+task.Name)

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// PUT /task/{id} — requires edit rights on the task.
func (c *Controller) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id := taskIDFromRequest(r)
	if id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	var req updateRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Validation error", Issues: []string{"name must not be empty"}})
		return
	}

	task, err := c.Tasks.Update(id, uid, repository.TaskPatch{
		Name:        req.Name,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotAllowed) {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Not authorized"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	c.logAction(id, uid, models.ActionUpdate, "updated "+task.Name)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DELETE /task/{id} — requires delete rights on the task.
func (c *Controller) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id := taskIDFromRequest(r)
	if id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	// load first so stored attachments can be cleaned up after the delete
	task, findErr := c.Tasks.FindByID(id)

	if err := c.Tasks.Delete(id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		case errors.Is(err, repository.ErrNotAllowed):
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Not authorized"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	if findErr == nil {
		if task.PhotoURL != nil && *task.PhotoURL != "" {
			_ = utils.DeleteFromS3(*task.PhotoURL)
		}
		if task.AudioURL != nil && *task.AudioURL != "" {
			_ = utils.DeleteFromS3(*task.AudioURL)
		}
		c.logAction(id, uid, models.ActionDelete, "deleted "+task.Name)
	} else {
		c.logAction(id, uid, models.ActionDelete, "")
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task deleted"})
}
