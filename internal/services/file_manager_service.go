package services

import (
	"io"

	"chatline/internal/interfaces"
)

// FileManagerService stores chat media (and avatars) and returns the public
// URL clients put on messages as media_url.
type FileManagerService struct {
	fileManager interfaces.FileManager
	bucket      string
}

func NewFileManagerService(fileManager interfaces.FileManager, bucket string) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
		bucket:      bucket,
	}
}

func (fs *FileManagerService) UploadChatMedia(fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	return fs.fileManager.UploadFile(fileName, file, fileSize, contentType, fs.bucket)
}
