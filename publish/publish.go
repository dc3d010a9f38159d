// seehuhn.de/go/image2pdf - convert raster images into annotated PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package publish uploads finished PDF files to an S3 compatible object
// store.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"seehuhn.de/go/image2pdf/config"
)

// Environment variables holding the S3 credentials.
const (
	EnvAccessKey = "S3_ACCESS_KEY"
	EnvSecretKey = "S3_SECRET_KEY"
)

// Credentials are the S3 access keys.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// ErrNoCredentials is returned by [FromEnv] if the access keys are not set.
var ErrNoCredentials = errors.New("S3 credentials not set")

// FromEnv reads the credentials from the environment.  If envFile is not
// empty and the file exists, variables from this file are loaded first.
// Variables already present in the environment take precedence.
func FromEnv(envFile string) (Credentials, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("%s: %w", envFile, err)
		}
	}
	c := Credentials{
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return Credentials{}, fmt.Errorf("%w (%s, %s)", ErrNoCredentials, EnvAccessKey, EnvSecretKey)
	}
	return c, nil
}

// Uploader stores files in a bucket.
type Uploader struct {
	client *minio.Client
	bucket string
	prefix string
	host   string
	log    *zap.Logger
}

// New creates an Uploader.  No network connection is made until
// [Uploader.Upload] is called.  If logger is nil, nothing is logged.
func New(prefs config.PublishPrefs, creds Credentials, logger *zap.Logger) (*Uploader, error) {
	if prefs.Endpoint == "" || prefs.Bucket == "" {
		return nil, errors.New("publishing requires an endpoint and a bucket")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(prefs.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKey, creds.SecretKey, ""),
		Secure: prefs.Secure,
		Region: prefs.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	scheme := "https"
	if !prefs.Secure {
		scheme = "http"
	}
	return &Uploader{
		client: client,
		bucket: prefs.Bucket,
		prefix: prefs.Prefix,
		host:   scheme + "://" + prefs.Endpoint,
		log:    logger,
	}, nil
}

// ObjectName returns the key under which the named file is stored.
func (u *Uploader) ObjectName(fname string) string {
	base := filepath.Base(fname)
	prefix := strings.Trim(filepath.ToSlash(u.prefix), "/")
	if prefix == "" {
		return base
	}
	return path.Join(prefix, base)
}

// PublicURL returns the URL of a stored object.
func (u *Uploader) PublicURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return u.host + "/" + u.bucket + "/" + strings.Join(parts, "/")
}

// Upload stores the named PDF file in the bucket and returns its URL.
func (u *Uploader) Upload(ctx context.Context, fname string) (string, error) {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("bucket %q does not exist", u.bucket)
	}

	key := u.ObjectName(fname)
	info, err := u.client.FPutObject(ctx, u.bucket, key, fname, minio.PutObjectOptions{
		ContentType:  "application/pdf",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	u.log.Info("uploaded",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.String("size", humanize.Bytes(uint64(info.Size))))
	return u.PublicURL(key), nil
}
