package controllers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"Postline/utils/fileformat"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const maxImageSize = 2_000_000

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// savePostImage validates and stores an uploaded post image. With S3_BUCKET
// configured it goes to S3 under PostImages/; otherwise it lands in the
// local media dir so dev setups work without AWS. Returns the stored path
// or a field-keyed validation error map.
func savePostImage(file *multipart.FileHeader) (string, map[string]string) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", map[string]string{"Invalid_image": "Image must be jpg, png or gif"}
	}
	if file.Size > maxImageSize {
		return "", map[string]string{"Too_large_image": "Image must be smaller than 2MB"}
	}

	f, err := file.Open()
	if err != nil {
		return "", map[string]string{"Invalid_image": "Cannot open uploaded file"}
	}
	defer f.Close()

	buf := make([]byte, file.Size)
	if _, err := f.Read(buf); err != nil {
		return "", map[string]string{"Invalid_image": "Could not read file"}
	}
	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") {
		return "", map[string]string{"Invalid_image": "Not an image"}
	}

	filePath := fileformat.UniqueFormat(file.Filename)
	key := "PostImages/" + filePath

	rawBucket := os.Getenv("S3_BUCKET")
	bucketName := strings.SplitN(rawBucket, "/", 2)[0]
	if bucketName == "" {
		if err := saveLocalImage(key, buf); err != nil {
			return "", map[string]string{"Upload_error": "Could not save image"}
		}
		return key, nil
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return "", map[string]string{"Upload_error": "AWS configuration error"}
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws2.String(bucketName),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws2.Int64(file.Size),
		ContentType:   aws2.String(fileType),
	})
	if err != nil {
		return "", map[string]string{"Upload_error": "Failed to upload image"}
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, region, key), nil
}

func saveLocalImage(key string, data []byte) error {
	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}
	fullPath := filepath.Join(mediaDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0o644)
}
