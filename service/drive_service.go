package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"umbrella-customizer/config"
	"umbrella-customizer/models"
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// ListImageFiles lists the image files in a Drive folder, keyed by file name
func (ds *DriveService) ListImageFiles(ctx context.Context, folderID string) (map[string]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	files := make(map[string]string)
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, file := range r.Files {
			if !imageMimeTypes[strings.ToLower(file.MimeType)] {
				continue
			}
			files[file.Name] = file.Id
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// DownloadImage downloads the content of a Drive file
func (ds *DriveService) DownloadImage(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadBytes*4))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// DriveSource serves base images stored in a Google Drive folder
// The folder listing is fetched on first use and kept until Refresh
type DriveSource struct {
	drive    DriveServiceInterface
	folderID string
	themes   config.Themes

	mu    sync.Mutex
	files map[string]string
}

// NewDriveSource creates a DriveSource for folderID
func NewDriveSource(drive DriveServiceInterface, folderID string, themes config.Themes) *DriveSource {
	return &DriveSource{drive: drive, folderID: folderID, themes: themes}
}

// Ensure DriveSource implements BaseImageSource
var _ BaseImageSource = (*DriveSource)(nil)

// Open downloads the theme's asset from the folder
func (s *DriveSource) Open(ctx context.Context, color models.Color) ([]byte, error) {
	files, err := s.listing(ctx)
	if err != nil {
		return nil, err
	}

	name := s.themes.For(color).Asset
	fileID, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s not in drive folder %s", ErrAssetNotFound, name, s.folderID)
	}
	return s.drive.DownloadImage(ctx, fileID)
}

// Refresh drops the cached folder listing
func (s *DriveSource) Refresh() {
	s.mu.Lock()
	s.files = nil
	s.mu.Unlock()
}

func (s *DriveSource) listing(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.files != nil {
		return s.files, nil
	}
	files, err := s.drive.ListImageFiles(ctx, s.folderID)
	if err != nil {
		return nil, err
	}
	s.files = files
	return files, nil
}
