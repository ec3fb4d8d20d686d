package dto

type ManualDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	FilePath    string `json:"file_path"`
	FolderPath  string `json:"folder_path"`
	FileType    string `json:"file_type"`
	Description string `json:"description"`
	Size        int64  `json:"size"`
	UploadedBy  uint64 `json:"uploaded_by,omitempty"`
	UploadedAt  string `json:"uploaded_at"`
}

type UploadManualDTO struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type CreateFolderDTO struct {
	Name string `json:"name" validate:"required,max=128,excludes=/"`
}
