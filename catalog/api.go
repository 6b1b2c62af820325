package catalog

// This file provides some APIs for other packages to use.
// Saves them from constructing HTTP requests OR directly
// talking to the crud/service or even crud/orm.

import (
	"context"
	"errors"
	"fmt"

	"trackdash/model"

	"github.com/cdfmlr/crud/orm"
	"github.com/cdfmlr/crud/service"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no dataset matches.
var ErrNotFound = errors.New("dataset not found")

// DatasetExists checks if a dataset with the checksum is catalogued.
func DatasetExists(ctx context.Context, checksum string) bool {
	cnt, err := service.Count[model.Dataset](ctx,
		service.FilterBy("checksum", checksum))

	if err != nil {
		logger.WithContext(ctx).
			WithField("checksum", checksum).
			WithError(err).
			Error("DatasetExists: failed to select datasets")
		return false
	}

	return cnt > 0
}

// DatasetByChecksum returns the dataset with the checksum.
func DatasetByChecksum(ctx context.Context, checksum string) (*model.Dataset, error) {
	var d model.Dataset
	err := orm.DB.WithContext(ctx).
		Where("checksum = ?", checksum).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("DatasetByChecksum: %w", err)
	}
	return &d, nil
}

// GetDataset returns the dataset with the id.
func GetDataset(ctx context.Context, id uint) (*model.Dataset, error) {
	var d model.Dataset
	err := orm.DB.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetDataset: %w", err)
	}
	return &d, nil
}

// ListDatasets returns every dataset, the latest first.
func ListDatasets(ctx context.Context) ([]model.Dataset, error) {
	var ds []model.Dataset
	err := orm.DB.WithContext(ctx).Order("id DESC").Find(&ds).Error
	if err != nil {
		return nil, fmt.Errorf("ListDatasets: %w", err)
	}
	return ds, nil
}

func CreateDataset(ctx context.Context, d *model.Dataset) error {
	err := service.Create(ctx, d, service.IfNotExist())
	return err
}
