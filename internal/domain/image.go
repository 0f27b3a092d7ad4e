package domain

import "io"

// Image описывает изображение продукта для загрузки в S3
type Image struct {
	ObjectKey   string
	Bytes       []byte
	Size        int64
	ContentType string // Example: "image/jpeg"
}

func NewImage(objectKey string, data []byte, contentType string) *Image {
	return &Image{
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
}

// ImageObject — изображение, прочитанное из S3. Body нужно закрыть.
type ImageObject struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}
