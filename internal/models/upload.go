package models

import "io"

// Upload is a single file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
