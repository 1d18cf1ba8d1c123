package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New อ่าน CLOUDINARY_URL จาก env
func New() (*cloudinary.Cloudinary, error) {
	return cloudinary.New()
}
