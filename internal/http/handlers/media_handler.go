package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/repository"
	"github.com/foodshare/foodshare-backend/internal/storage"
)

// Разрешённые форматы фотографий еды.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MediaHandler обслуживает загрузку фотографий еды.
type MediaHandler struct {
	repo    *repository.MediaRepository
	storage *storage.PhotoStorage
}

// NewMediaHandler создаёт новый хэндлер.
func NewMediaHandler(repo *repository.MediaRepository, storage *storage.PhotoStorage) *MediaHandler {
	return &MediaHandler{repo: repo, storage: storage}
}

// Upload обрабатывает POST /api/media/photos.
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле file обязательно"})
		return
	}
	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл не может быть пустым"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	// Определяем реальный тип файла по магическим байтам, расширению не доверяем.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось прочитать файл"})
		return
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось определить тип файла"})
		return
	}

	contentType := kind.MIME.Value
	if _, ok := allowedImageTypes[contentType]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "разрешены только изображения: " + strings.Join(allowedTypeList(), ", "),
		})
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сбросить позицию файла"})
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	media := &models.MediaFile{
		UserID:   userID,
		FilePath: filepath.ToSlash(relativePath),
		FileType: contentType,
		FileSize: size,
	}

	if err := h.repo.Create(c.Request.Context(), media); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// Get обрабатывает GET /api/media/:id — метаданные файла.
func (h *MediaHandler) Get(c *gin.Context) {
	mediaID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	media, err := h.repo.GetByID(c.Request.Context(), mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "файл не найден"})
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, media)
}

// allowedTypeList возвращает список разрешённых MIME типов.
func allowedTypeList() []string {
	types := make([]string, 0, len(allowedImageTypes))
	for t := range allowedImageTypes {
		types = append(types, t)
	}
	return types
}
