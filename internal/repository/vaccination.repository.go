package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
)

var ErrVaccinationNotFound = errors.New("vaccination not found")

type VaccinationRepository struct {
	*pg.DB
}

func NewVaccinationRepository(db *pg.DB) *VaccinationRepository {
	return &VaccinationRepository{db}
}

func (r *VaccinationRepository) Create(ctx context.Context, v *model.Vaccination) (*model.Vaccination, error) {
	entity := toVaccinationEntity(v)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toVaccinationModel(entity), nil
}

func (r *VaccinationRepository) Get(ctx context.Context, id int64) (*model.Vaccination, error) {
	var entity VaccinationEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVaccinationNotFound
		}
		return nil, err
	}
	return toVaccinationModel(&entity), nil
}

func (r *VaccinationRepository) Update(ctx context.Context, v *model.Vaccination) (*model.Vaccination, error) {
	res := r.Write(ctx).Model(&VaccinationEntity{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"vaccine_name":     v.VaccineName,
		"vaccination_date": v.VaccinationDate,
		"expiry_date":      v.ExpiryDate,
		"veterinarian":     v.Veterinarian,
		"notes":            v.Notes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrVaccinationNotFound
	}
	return r.Get(ctx, v.ID)
}

func (r *VaccinationRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&VaccinationEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVaccinationNotFound
	}
	return nil
}

func (r *VaccinationRepository) List(ctx context.Context, f model.VaccinationFilter) ([]*model.Vaccination, int64, error) {
	q := r.Read(ctx).Model(&VaccinationEntity{})

	if f.DogID != nil {
		q = q.Where("dog_id = ?", *f.DogID)
	}
	if f.ExpiresBefore != nil {
		q = q.Where("expiry_date IS NOT NULL AND expiry_date <= ?", *f.ExpiresBefore)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*VaccinationEntity
	err := q.Preload("Dog").
		Order(orderClause("vaccination_date", f.Desc)).
		Limit(limit).Offset(offset).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toVaccinationModels(entities), total, nil
}
