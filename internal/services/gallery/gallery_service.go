package gallery

import (
	"bytes"
	"fmt"
	"log"

	"github.com/supabase-community/postgrest-go"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"github.com/progate-hackathon-strawberry-flavor/FESTA-backend/internal/models"
)

const (
	// photoBucket は写真を保存するSupabaseストレージのバケット名です。
	photoBucket = "photos"

	// MaxUploadBytes はアップロードを受け付ける最大サイズです。
	MaxUploadBytes = 10 << 20 // 10MB
)

// postgrestOrderDesc は一覧取得で使う降順ソートの指定です。
var postgrestOrderDesc = postgrest.OrderOpts{Ascending: false}

// allowedContentTypes はアップロードを許可する画像のMIMEタイプです。
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Service は写真ギャラリーを担当するサービスです。
// 実ファイルはSupabaseストレージに、メタデータはphotosテーブルに保存します。
type Service struct {
	client *supabase.Client
}

// NewService は新しいギャラリーサービスを作成します。
func NewService(supabaseURL, supabaseKey string) (*Service, error) {
	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの作成に失敗しました: %w", err)
	}
	return &Service{client: client}, nil
}

// UploadPhoto はファイルをストレージにアップロードし、メタデータをDBに保存します。
// メタデータの保存に失敗してもアップロード自体は無駄にならないよう、
// 公開URLとWarningを付けて結果を返します（原因はログに残します）。
func (s *Service) UploadPhoto(data []byte, fileName, contentType, uploader, caption string) (*models.PhotoUploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("ファイルが空です")
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("ファイルサイズが上限（%dバイト）を超えています", MaxUploadBytes)
	}
	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("許可されていないファイル形式です: %s", contentType)
	}
	if uploader == "" {
		uploader = "Anonymous"
	}

	cacheControl := "3600"
	upsert := false
	_, err := s.client.Storage.UploadFile(photoBucket, fileName, bytes.NewReader(data), storage_go.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	})
	if err != nil {
		return nil, fmt.Errorf("ストレージへのアップロードに失敗しました: %w", err)
	}

	publicURL := s.client.Storage.GetPublicUrl(photoBucket, fileName).SignedURL
	log.Printf("GalleryService Info: %s をアップロードしました: %s", fileName, publicURL)

	// メタデータをphotosテーブルに保存
	row := map[string]interface{}{
		"url":         publicURL,
		"uploader":    uploader,
		"caption":     caption,
		"is_approved": true,
	}

	var inserted []models.Photo
	_, err = s.client.From("photos").Insert(row, false, "", "representation", "").ExecuteTo(&inserted)
	if err != nil || len(inserted) == 0 {
		log.Printf("GalleryService Error: 写真メタデータの保存に失敗しました: %v", err)
		return &models.PhotoUploadResult{
			URL:     publicURL,
			Warning: "ファイルはアップロードされましたが、メタデータの保存に失敗しました",
		}, nil
	}

	return &models.PhotoUploadResult{
		URL:   publicURL,
		Photo: &inserted[0],
	}, nil
}

// ListPhotos は写真メタデータを新しい順で取得します。
func (s *Service) ListPhotos() ([]models.Photo, error) {
	var photos []models.Photo
	_, err := s.client.From("photos").
		Select("*", "", false).
		Order("created_at", &postgrestOrderDesc).
		ExecuteTo(&photos)
	if err != nil {
		return nil, fmt.Errorf("写真一覧の取得に失敗しました: %w", err)
	}
	return photos, nil
}

// DeletePhoto はストレージの実ファイルとメタデータ行を削除します。
// ストレージ側の削除失敗は続行します（原因はログに残します）。
func (s *Service) DeletePhoto(photoID, fileName string) error {
	if fileName != "" {
		if _, err := s.client.Storage.RemoveFile(photoBucket, []string{fileName}); err != nil {
			log.Printf("GalleryService Error: ストレージからの削除に失敗しました（続行します）: %v", err)
		}
	}

	_, _, err := s.client.From("photos").Delete("", "").Eq("id", photoID).Execute()
	if err != nil {
		return fmt.Errorf("写真メタデータの削除に失敗しました: %w", err)
	}
	return nil
}
