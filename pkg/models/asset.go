package models

import (
	"fmt"
	"time"
)

// AssetType classifies what kind of file an asset holds.
type AssetType string

const (
	AssetTypeDocument AssetType = "DOCUMENT"
	AssetTypeImage    AssetType = "IMAGE"
	AssetTypeVideo    AssetType = "VIDEO"
)

// Asset is one logical record for an uploaded file, independent of its
// physical storage location. Assets are created by the upload-registration
// path and are read-only to the processing pipeline.
type Asset struct {
	ID        string    `json:"assetId" dynamodbav:"assetId"`
	UserID    string    `json:"userId" dynamodbav:"userId"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	Name      string    `json:"name" dynamodbav:"name"`
	Type      AssetType `json:"type" dynamodbav:"type"`
	S3Key     string    `json:"s3Key" dynamodbav:"s3Key"`
}

// ParseAssetType converts a stored string into an AssetType, rejecting
// anything outside the closed set.
func ParseAssetType(s string) (AssetType, error) {
	switch AssetType(s) {
	case AssetTypeDocument, AssetTypeImage, AssetTypeVideo:
		return AssetType(s), nil
	}
	return "", fmt.Errorf("unknown asset type: %q", s)
}
