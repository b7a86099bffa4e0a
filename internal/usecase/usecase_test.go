package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is a Monday morning; fixtures are dated around it.
var testNow = time.Date(2030, time.January, 7, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	redis *redis.Client
	log   *logrus.Logger
	jwt   *jwt.JWTService
	mail  *recordingMailer

	userRepo         domainRepo.UserRepository
	doctorRepo       domainRepo.DoctorProfileRepository
	patientRepo      domainRepo.PatientProfileRepository
	availabilityRepo domainRepo.DoctorAvailabilityRepository
	timeSlotRepo     domainRepo.TimeSlotRepository
	appointmentRepo  domainRepo.AppointmentRepository
	auditRepo        domainRepo.AuditLogRepository

	audit  service.AuditService
	locker service.SlotLocker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// One connection keeps the in-memory database alive and serialises
	// transactions the way row locks would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.PatientProfile{},
		&entity.DoctorAvailability{},
		&entity.TimeSlot{},
		&entity.Appointment{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	auditRepo := repository.NewAuditLogRepository()

	previous := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = previous })

	return &testEnv{
		db:    db,
		mr:    mr,
		redis: client,
		log:   log,
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			Issuer:        "test",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		}),
		mail: &recordingMailer{},

		userRepo:         repository.NewUserRepository(),
		doctorRepo:       repository.NewDoctorProfileRepository(),
		patientRepo:      repository.NewPatientProfileRepository(),
		availabilityRepo: repository.NewDoctorAvailabilityRepository(),
		timeSlotRepo:     repository.NewTimeSlotRepository(),
		appointmentRepo:  repository.NewAppointmentRepository(),
		auditRepo:        auditRepo,

		audit:  service.NewAuditService(db, log, auditRepo),
		locker: service.NewSlotLockService(client, log, time.Second, 0),
	}
}

func (e *testEnv) authUsecase() AuthUsecase {
	return NewAuthUsecase(e.db, e.log, e.userRepo, e.doctorRepo, e.patientRepo, e.audit, e.mail, e.jwt, e.redis, "https://app.example")
}

func (e *testEnv) appointmentUsecase() AppointmentUsecase {
	return NewAppointmentUsecase(e.db, e.log, e.patientRepo, e.timeSlotRepo, e.appointmentRepo, e.audit, e.locker)
}

func (e *testEnv) timeSlotUsecase() TimeSlotUsecase {
	return NewTimeSlotUsecase(e.db, e.log, e.doctorRepo, e.timeSlotRepo, e.appointmentRepo, e.audit, e.locker)
}

func (e *testEnv) availabilityUsecase() AvailabilityUsecase {
	return NewAvailabilityUsecase(e.db, e.log, e.doctorRepo, e.availabilityRepo, e.timeSlotRepo, e.audit)
}

// addUser inserts a user and the profile of its role. Users are numbered in
// insertion order.
func (e *testEnv) addUser(t *testing.T, role entity.Role, name string) entity.Caller {
	t.Helper()
	user := &entity.User{
		FullName:     name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		Role:         role,
	}
	if err := e.userRepo.Create(e.db, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	switch role {
	case entity.RoleDoctor:
		if err := e.doctorRepo.Create(e.db, &entity.DoctorProfile{UserID: user.ID, Specialty: entity.DefaultSpecialty}); err != nil {
			t.Fatalf("create doctor: %v", err)
		}
	case entity.RolePatient:
		if err := e.patientRepo.Create(context.Background(), e.db, &entity.PatientProfile{UserID: user.ID}); err != nil {
			t.Fatalf("create patient: %v", err)
		}
	}
	return entity.Caller{UserID: user.ID, Role: role}
}

func (e *testEnv) addSlot(t *testing.T, doctorID uint, date, start, end string) *entity.TimeSlot {
	t.Helper()
	day, err := entity.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	from, err := entity.ParseClock(start)
	if err != nil {
		t.Fatal(err)
	}
	to, err := entity.ParseClock(end)
	if err != nil {
		t.Fatal(err)
	}
	slot := &entity.TimeSlot{DoctorID: doctorID, SlotDate: day, StartTime: from, EndTime: to}
	if err := e.timeSlotRepo.Create(e.db, slot); err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return slot
}

func (e *testEnv) slot(t *testing.T, id uint) *entity.TimeSlot {
	t.Helper()
	slot, err := e.timeSlotRepo.FindByID(e.db, id)
	if err != nil {
		t.Fatal(err)
	}
	return slot
}

func (e *testEnv) countAppointments(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&entity.Appointment{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

// people is the usual cast: patient 1, doctor 2, patient 3, doctor 4 and
// admin 5.
type people struct {
	patient1, doctor2, patient3, doctor4, admin entity.Caller
}

func (e *testEnv) addPeople(t *testing.T) people {
	t.Helper()
	return people{
		patient1: e.addUser(t, entity.RolePatient, "patient1"),
		doctor2:  e.addUser(t, entity.RoleDoctor, "doctor2"),
		patient3: e.addUser(t, entity.RolePatient, "patient3"),
		doctor4:  e.addUser(t, entity.RoleDoctor, "doctor4"),
		admin:    e.addUser(t, entity.RoleAdmin, "admin"),
	}
}

func wantKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperror.KindOf(err); got != kind {
		t.Fatalf("error kind = %s, want %s (err: %v)", got, kind, err)
	}
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

func uintPtr(v uint) *uint { return &v }

type recordingMailer struct {
	mu    sync.Mutex
	to    []string
	links []string
}

func (m *recordingMailer) SendPasswordReset(ctx context.Context, to, fullName, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.links = append(m.links, resetLink)
	return nil
}

func (m *recordingMailer) lastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}
