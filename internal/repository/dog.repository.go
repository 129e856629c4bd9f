package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
)

var ErrDogNotFound = errors.New("dog not found")

type DogRepository struct {
	*pg.DB
}

func NewDogRepository(db *pg.DB) *DogRepository {
	return &DogRepository{db}
}

func (r *DogRepository) Create(ctx context.Context, d *model.Dog) (*model.Dog, error) {
	entity := toDogEntity(d)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toDogModel(entity), nil
}

func (r *DogRepository) Get(ctx context.Context, id int64) (*model.Dog, error) {
	var entity DogEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDogNotFound
		}
		return nil, err
	}
	return toDogModel(&entity), nil
}

func (r *DogRepository) Update(ctx context.Context, d *model.Dog) (*model.Dog, error) {
	entity := toDogEntity(d)
	res := r.Write(ctx).Model(&DogEntity{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"name":       entity.Name,
		"breed":      entity.Breed,
		"birth_date": entity.BirthDate,
		"gender":     entity.Gender,
		"neutered":   entity.Neutered,
		"notes":      entity.Notes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrDogNotFound
	}
	return r.Get(ctx, d.ID)
}

func (r *DogRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&DogEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDogNotFound
	}
	return nil
}

func (r *DogRepository) List(ctx context.Context, f model.DogFilter) ([]*model.Dog, int64, error) {
	q := r.Read(ctx).Model(&DogEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Search != nil && *f.Search != "" {
		like := "%" + *f.Search + "%"
		q = q.Where("name LIKE ? OR breed LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*DogEntity
	if err := q.Order(orderClause("created_at", f.Desc)).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toDogModels(entities), total, nil
}
