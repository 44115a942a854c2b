package alist

import "encoding/json"

// envelope is the standard AList response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// FileInfo describes one object returned by /api/fs/get or /api/fs/list.
type FileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	IsDir    bool   `json:"is_dir"`
	Modified string `json:"modified"`
	Sign     string `json:"sign"`
	RawURL   string `json:"raw_url"`
}

// Listing is the result of a directory list call.
type Listing struct {
	Content  []FileInfo `json:"content"`
	Total    int64      `json:"total"`
	Write    bool       `json:"write"`
	Provider string     `json:"provider"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginData struct {
	Token string `json:"token"`
}

type listRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
	Refresh  bool   `json:"refresh"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
}

type getRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
}

type removeRequest struct {
	Names []string `json:"names"`
	Dir   string   `json:"dir"`
}
