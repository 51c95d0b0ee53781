package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
}

type FileEntry struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

type ConvertResponse struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	Abc      string   `json:"abc"`
	Warnings []string `json:"warnings"`
}
