package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeDispatcher records enqueued jobs instead of touching redis.
type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []notify.EmailJob
}

func (f *fakeDispatcher) Enqueue(_ context.Context, job notify.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeDispatcher) sent() []notify.EmailJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.EmailJob(nil), f.jobs...)
}

type testEnv struct {
	db         *pg.DB
	dispatcher *fakeDispatcher

	bookings     *BookingService
	sessions     *SessionService
	credits      *CreditService
	invoices     *InvoiceService
	payments     *PaymentService
	customers    *CustomerService
	dogs         *DogService
	courses      *CourseService
	vaccinations *VaccinationService
	anamnesis    *AnamnesisService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&repository.UserEntity{},
		&repository.CustomerEntity{},
		&repository.DogEntity{},
		&repository.CourseEntity{},
		&repository.TrainingSessionEntity{},
		&repository.BookingEntity{},
		&repository.CreditPackageEntity{},
		&repository.CustomerCreditEntity{},
		&repository.InvoiceEntity{},
		&repository.InvoiceItemEntity{},
		&repository.PaymentEntity{},
		&repository.VaccinationEntity{},
		&repository.AnamnesisTemplateEntity{},
		&repository.AnamnesisQuestionEntity{},
		&repository.AnamnesisResponseEntity{},
		&repository.AnamnesisAnswerEntity{},
		&repository.SettingEntity{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	db := pg.NewFromGorm(gdb)
	dispatcher := &fakeDispatcher{}

	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	dogRepo := repository.NewDogRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	vaccinationRepo := repository.NewVaccinationRepository(db)
	anamnesisRepo := repository.NewAnamnesisRepository(db)

	return &testEnv{
		db:           db,
		dispatcher:   dispatcher,
		bookings:     NewBookingService(db, bookingRepo, sessionRepo, dogRepo, customerRepo, courseRepo, dispatcher),
		sessions:     NewSessionService(sessionRepo, bookingRepo),
		credits:      NewCreditService(creditRepo, customerRepo),
		invoices:     NewInvoiceService(db, invoiceRepo, customerRepo, dispatcher),
		payments:     NewPaymentService(db, paymentRepo, invoiceRepo),
		customers:    NewCustomerService(customerRepo),
		dogs:         NewDogService(dogRepo, customerRepo),
		courses:      NewCourseService(courseRepo),
		vaccinations: NewVaccinationService(vaccinationRepo, dogRepo),
		anamnesis:    NewAnamnesisService(anamnesisRepo, dogRepo),
	}
}

func (e *testEnv) customer(t *testing.T, email string) *model.Customer {
	t.Helper()
	c, err := e.customers.Create(t.Context(), model.CustomerCreateRequest{
		FirstName: "Anna",
		LastName:  "Berg",
		Email:     email,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) dog(t *testing.T, customerID int64, name string) *model.Dog {
	t.Helper()
	d, err := e.dogs.Create(t.Context(), model.DogCreateRequest{
		CustomerID: customerID,
		Name:       name,
		Breed:      "Labrador",
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) session(t *testing.T, maxParticipants int) *model.TrainingSession {
	t.Helper()
	course, err := e.courses.Create(t.Context(), model.CourseCreateRequest{
		TrainerID:       1,
		Title:           "Welpenschule",
		MaxParticipants: maxParticipants,
		Price:           120,
	})
	require.NoError(t, err)

	s, err := e.sessions.Create(t.Context(), model.SessionCreateRequest{
		CourseID:        &course.ID,
		TrainerID:       1,
		SessionDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxParticipants: maxParticipants,
	})
	require.NoError(t, err)
	return s
}
