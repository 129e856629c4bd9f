package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *pg.DB {
	t.Helper()

	// One named in-memory database per test; cache=shared lets the pooled
	// connections see the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&UserEntity{},
		&CustomerEntity{},
		&DogEntity{},
		&CourseEntity{},
		&TrainingSessionEntity{},
		&BookingEntity{},
		&CreditPackageEntity{},
		&CustomerCreditEntity{},
		&InvoiceEntity{},
		&InvoiceItemEntity{},
		&PaymentEntity{},
		&VaccinationEntity{},
		&AnamnesisTemplateEntity{},
		&AnamnesisQuestionEntity{},
		&AnamnesisResponseEntity{},
		&AnamnesisAnswerEntity{},
		&SettingEntity{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return pg.NewFromGorm(db)
}

func seedCustomer(t *testing.T, db *pg.DB, firstName, lastName, email string) *model.Customer {
	t.Helper()
	repo := NewCustomerRepository(db)
	c, err := repo.Create(t.Context(), &model.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	})
	require.NoError(t, err)
	return c
}

func seedDog(t *testing.T, db *pg.DB, customerID int64, name string) *model.Dog {
	t.Helper()
	repo := NewDogRepository(db)
	d, err := repo.Create(t.Context(), &model.Dog{
		CustomerID: customerID,
		Name:       name,
		Breed:      "Border Collie",
	})
	require.NoError(t, err)
	return d
}

func seedCourse(t *testing.T, db *pg.DB, title string) *model.Course {
	t.Helper()
	repo := NewCourseRepository(db)
	c, err := repo.Create(t.Context(), &model.Course{
		TrainerID:       1,
		Title:           title,
		CourseType:      "obedience",
		MaxParticipants: 8,
		Price:           120,
		Active:          true,
	})
	require.NoError(t, err)
	return c
}

func seedSession(t *testing.T, db *pg.DB, courseID int64, maxParticipants int) *model.TrainingSession {
	t.Helper()
	repo := NewSessionRepository(db)
	s, err := repo.Create(t.Context(), &model.TrainingSession{
		CourseID:        &courseID,
		TrainerID:       1,
		SessionDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxParticipants: maxParticipants,
		Status:          model.SessionStatusScheduled,
	})
	require.NoError(t, err)
	return s
}
