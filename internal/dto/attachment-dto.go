package dto

type AttachmentDTO struct {
	ID         uint64 `json:"id"`
	RMAID      uint64 `json:"rma_id"`
	Name       string `json:"name"`
	StorageKey string `json:"storage_key"`
	FileType   string `json:"file_type"`
	UploadedBy uint64 `json:"uploaded_by,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}
