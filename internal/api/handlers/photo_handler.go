package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/services/gallery"
)

// PhotoHandler は写真ギャラリー関連のハンドラーを管理する構造体です。
// ギャラリーサービスが構成されていない場合は503を返します。
type PhotoHandler struct {
	galleryService *gallery.Service
}

// NewPhotoHandler は新しいPhotoHandlerインスタンスを作成します。
func NewPhotoHandler(galleryService *gallery.Service) *PhotoHandler {
	return &PhotoHandler{galleryService: galleryService}
}

// GetPhotos は写真一覧を新しい順で取得するハンドラーです。
// GET /api/photos
func (h *PhotoHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	if h.galleryService == nil {
		http.Error(w, "ギャラリーは構成されていません", http.StatusServiceUnavailable)
		return
	}

	photos, err := h.galleryService.ListPhotos()
	if err != nil {
		log.Printf("写真一覧取得エラー: %v", err)
		http.Error(w, "写真一覧の取得に失敗しました", http.StatusInternalServerError)
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"photos":  photos,
	})
}

// UploadPhoto はmultipartフォームで写真を受け取るハンドラーです。
// POST /api/photos （フィールド: photo, uploader, caption）
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.galleryService == nil {
		http.Error(w, "ギャラリーは構成されていません", http.StatusServiceUnavailable)
		return
	}

	// サイズ上限より大きいボディは読み込み自体を打ち切る
	r.Body = http.MaxBytesReader(w, r.Body, gallery.MaxUploadBytes+1024)
	if err := r.ParseMultipartForm(gallery.MaxUploadBytes); err != nil {
		http.Error(w, "ファイルサイズが上限を超えているか、フォームが不正です", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photoフィールドは必須です", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("写真読み込みエラー: %v", err)
		http.Error(w, "ファイルの読み込みに失敗しました", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	// ファイル名の衝突を避けるためタイムスタンプを付ける
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)), " ", "-"))
	fileName := fmt.Sprintf("%s-%d%s", base, time.Now().UnixMilli(), filepath.Ext(header.Filename))

	result, err := h.galleryService.UploadPhoto(
		data, fileName, contentType,
		r.FormValue("uploader"), r.FormValue("caption"),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// DeletePhoto は写真を削除するハンドラーです（管理者用）。
// DELETE /api/admin/photos/{id}?file_name=xxx
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if h.galleryService == nil {
		http.Error(w, "ギャラリーは構成されていません", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	photoID := vars["id"]
	if photoID == "" {
		http.Error(w, "idが指定されていません", http.StatusBadRequest)
		return
	}

	if err := h.galleryService.DeletePhoto(photoID, r.URL.Query().Get("file_name")); err != nil {
		log.Printf("写真削除エラー: %v", err)
		http.Error(w, "写真の削除に失敗しました", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
