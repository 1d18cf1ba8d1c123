package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/dto"
	"github.com/SundayYogurt/document_service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// in-memory sqlite ผูกกับ connection เดียว
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Faculty{},
		&domain.DocumentType{},
		&domain.User{},
		&domain.DocumentRequest{},
		&domain.DocumentRequestItem{},
		&domain.RequestStatusHistory{},
	))
	return db
}

type fixture struct {
	db       *gorm.DB
	svc      RequestService
	pusher   *fakePusher
	producer *fakeProducer

	student  domain.User
	student2 domain.User
	admin    domain.User
	typeA    domain.DocumentType // 100 บาท
	typeB    domain.DocumentType // 50 บาท
}

type fakePusher struct {
	mu     sync.Mutex
	fail   bool
	pushed []string
}

func (f *fakePusher) Push(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider down")
	}
	f.pushed = append(f.pushed, text)
	return nil
}

type fakeProducer struct {
	fail     bool
	messages [][]byte
}

func (f *fakeProducer) PublishMessage(_, value []byte) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.messages = append(f.messages, value)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	fx := &fixture{
		db:       db,
		pusher:   &fakePusher{},
		producer: &fakeProducer{},
	}

	fx.typeA = domain.DocumentType{NameTH: "ใบรับรองผลการเรียน", NameEN: "Transcript", Price: 100}
	fx.typeB = domain.DocumentType{NameTH: "หนังสือรับรอง", NameEN: "Certificate", Price: 50}
	require.NoError(t, db.Create(&fx.typeA).Error)
	require.NoError(t, db.Create(&fx.typeB).Error)

	fx.student = domain.User{StudentCode: "65010001", Email: "somchai@u.ac.th", FirstName: "Somchai", LastName: "Dee", Role: domain.RoleStudent}
	fx.student2 = domain.User{StudentCode: "65010002", Email: "somsri@u.ac.th", FirstName: "Somsri", LastName: "Suk", Role: domain.RoleStudent}
	fx.admin = domain.User{StudentCode: "staff001", Email: "staff@u.ac.th", FirstName: "Pranee", LastName: "Jai", Role: domain.RoleAdmin}
	require.NoError(t, db.Create(&fx.student).Error)
	require.NoError(t, db.Create(&fx.student2).Error)
	require.NoError(t, db.Create(&fx.admin).Error)

	notifier := NewNotifyService(fx.pusher, NotifyConfig{GroupChatID: -100123})
	fx.svc = NewRequestService(
		repository.NewRequestRepository(db),
		repository.NewDocumentTypeRepository(db),
		repository.NewUserRepository(db),
		notifier,
		fx.producer,
	)
	return fx
}

func strPtr(s string) *string { return &s }

func TestCreateMultiRequestMailPricing(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeA.ID, Quantity: 2},
			{DocumentTypeID: fx.typeB.ID, Quantity: 1},
		},
		Delivery: "mail",
		Address:  strPtr("99 หมู่ 1 ต.ในเมือง"),
	})
	require.NoError(t, err)

	// (100*2 + 50*1) + 200 ค่าส่ง
	assert.Equal(t, 450, resp.TotalPrice)
	assert.Equal(t, string(domain.RequestStatusPending), resp.Status)
	assert.Len(t, resp.Items, 2)

	var itemCount int64
	fx.db.Model(&domain.DocumentRequestItem{}).Where("request_id = ?", resp.ID).Count(&itemCount)
	assert.EqualValues(t, 2, itemCount)
}

func TestCreateMultiRequestUrgentPickupPricing(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeA.ID, Quantity: 2},
			{DocumentTypeID: fx.typeB.ID, Quantity: 1},
		},
		Delivery: "pickup",
		Urgent:   true,
	})
	require.NoError(t, err)

	// 250 + 50*3 ค่าด่วน
	assert.Equal(t, 400, resp.TotalPrice)
}

func TestCreateRequestSingleImplicitItem(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "pickup",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.TotalPrice)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "ใบรับรองผลการเรียน", resp.DocumentName)
}

func TestCreateRequestUnknownDocumentType(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: 9999,
		Delivery:       "pickup",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRequestMailRequiresAddress(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "mail",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "mail",
		Address:        strPtr("   "),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateRequestInvalidDelivery(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "carrier-pigeon",
	})
	assert.ErrorIs(t, err, ErrInvalidDelivery)
}

func TestCreateMultiRequestRejectsZeroQuantity(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeA.ID, Quantity: 0},
		},
		Delivery: "pickup",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClientTotalIsAdvisoryOnly(t *testing.T) {
	fx := newFixture(t)

	bogus := 1
	resp, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeB.ID, Quantity: 2},
		},
		Delivery:   "pickup",
		TotalPrice: &bogus,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.TotalPrice)
}

func TestNotificationFailureDoesNotFailCreate(t *testing.T) {
	fx := newFixture(t)
	fx.pusher.fail = true
	fx.producer.fail = true

	resp, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeA.ID, Quantity: 1},
		},
		Delivery: "pickup",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 100, resp.TotalPrice)

	var count int64
	fx.db.Model(&domain.DocumentRequest{}).Where("id = ?", resp.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestNotificationSentWithSummary(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeA.ID, Quantity: 2},
		},
		Delivery: "pickup",
		Urgent:   true,
	})
	require.NoError(t, err)

	require.Len(t, fx.pusher.pushed, 1)
	msg := fx.pusher.pushed[0]
	assert.Contains(t, msg, "65010001")
	assert.Contains(t, msg, "ใบรับรองผลการเรียน x2")
	assert.Contains(t, msg, "300 บาท")
	_ = resp
}

func TestCreateMultiRequestAtomicRollback(t *testing.T) {
	fx := newFixture(t)

	// จำลอง fail หลัง insert parent: ตัดตาราง items ทิ้ง
	require.NoError(t, fx.db.Migrator().DropTable(&domain.DocumentRequestItem{}))

	_, err := fx.svc.CreateMultiRequest(fx.student.ID, dto.CreateMultiRequest{
		Items: []dto.RequestItemInput{
			{DocumentTypeID: fx.typeA.ID, Quantity: 1},
		},
		Delivery: "pickup",
	})
	require.Error(t, err)

	var count int64
	fx.db.Model(&domain.DocumentRequest{}).Count(&count)
	assert.EqualValues(t, 0, count, "no partial order may remain")
}

func TestUpdateStatusWritesHistory(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "pickup",
	})
	require.NoError(t, err)

	var before domain.DocumentRequest
	require.NoError(t, fx.db.First(&before, resp.ID).Error)

	err = fx.svc.UpdateStatus(fx.admin.ID, resp.ID, dto.UpdateStatusRequest{
		Status: "processing",
		Note:   strPtr("payment verified"),
	})
	require.NoError(t, err)

	var after domain.DocumentRequest
	require.NoError(t, fx.db.First(&after, resp.ID).Error)
	assert.Equal(t, domain.RequestStatusProcessing, after.Status)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))

	var rows []domain.RequestStatusHistory
	require.NoError(t, fx.db.Where("request_id = ?", resp.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.RequestStatusProcessing, rows[0].Status)
	require.NotNil(t, rows[0].Note)
	assert.Equal(t, "payment verified", *rows[0].Note)
	require.NotNil(t, rows[0].CreatedBy)
	assert.Equal(t, fx.admin.ID, *rows[0].CreatedBy)
	assert.False(t, rows[0].CreatedAt.Before(before.UpdatedAt))
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "pickup",
	})
	require.NoError(t, err)

	err = fx.svc.UpdateStatus(fx.admin.ID, resp.ID, dto.UpdateStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	var count int64
	fx.db.Model(&domain.RequestStatusHistory{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	fx := newFixture(t)

	err := fx.svc.UpdateStatus(fx.admin.ID, 4242, dto.UpdateStatusRequest{Status: "processing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusForbiddenForStudent(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "pickup",
	})
	require.NoError(t, err)

	err = fx.svc.UpdateStatus(fx.student.ID, resp.ID, dto.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompletedCanBeReopened(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{
		DocumentTypeID: fx.typeA.ID,
		Delivery:       "pickup",
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, resp.ID, dto.UpdateStatusRequest{Status: "completed"}))
	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, resp.ID, dto.UpdateStatusRequest{Status: "processing"}))

	var after domain.DocumentRequest
	require.NoError(t, fx.db.First(&after, resp.ID).Error)
	assert.Equal(t, domain.RequestStatusProcessing, after.Status)
}

func TestHistoryNewestFirstAndScopedToRequest(t *testing.T) {
	fx := newFixture(t)

	r1, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)
	r2, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeB.ID, Delivery: "pickup"})
	require.NoError(t, err)

	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, r1.ID, dto.UpdateStatusRequest{Status: "processing"}))
	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, r1.ID, dto.UpdateStatusRequest{Status: "ready"}))
	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, r2.ID, dto.UpdateStatusRequest{Status: "rejected"}))

	rows, err := fx.svc.GetHistory(fx.student.ID, r1.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ready", rows[0].Status)
	assert.Equal(t, "processing", rows[1].Status)
	for _, row := range rows {
		assert.Equal(t, r1.ID, row.RequestID)
	}
}

func TestHistoryActorNameAndFallback(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)
	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, resp.ID, dto.UpdateStatusRequest{Status: "processing"}))

	rows, err := fx.svc.GetHistory(fx.student.ID, resp.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pranee Jai", rows[0].ActorName)

	// ผู้เปลี่ยนสถานะโดนลบ -> แสดง label กลางๆ
	require.NoError(t, fx.db.Delete(&domain.User{}, fx.admin.ID).Error)

	rows, err = fx.svc.GetHistory(fx.student.ID, resp.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "staff", rows[0].ActorName)
}

func TestActorLookupFailureIsNotForbidden(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)

	// storage พังระหว่างเช็ค actor ต้องไม่กลายเป็น 403
	require.NoError(t, fx.db.Migrator().DropTable(&domain.User{}))

	_, err = fx.svc.GetRequest(fx.student.ID, resp.ID, "th")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)

	_, err = fx.svc.GetHistory(fx.student.ID, resp.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)

	err = fx.svc.UpdateStatus(fx.admin.ID, resp.ID, dto.UpdateStatusRequest{Status: "processing"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestGetRequestOwnership(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)

	_, err = fx.svc.GetRequest(fx.student2.ID, resp.ID, "th")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = fx.svc.GetHistory(fx.student2.ID, resp.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	owned, err := fx.svc.GetRequest(fx.student.ID, resp.ID, "th")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, owned.ID)

	staffView, err := fx.svc.GetRequest(fx.admin.ID, resp.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "Transcript", staffView.DocumentName)
}

func TestAttachPaymentProofOwnership(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)

	err = fx.svc.AttachPaymentProof(fx.student2.ID, resp.ID, "https://cdn.example/slip.jpg")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, fx.svc.AttachPaymentProof(fx.student.ID, resp.ID, "https://cdn.example/slip.jpg"))

	var after domain.DocumentRequest
	require.NoError(t, fx.db.First(&after, resp.ID).Error)
	require.NotNil(t, after.PaymentProofURL)
	assert.Equal(t, "https://cdn.example/slip.jpg", *after.PaymentProofURL)
}

func TestListMyRequestsDoesNotLeakOthers(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)
	_, err = fx.svc.CreateRequest(fx.student2.ID, dto.CreateRequest{DocumentTypeID: fx.typeB.ID, Delivery: "pickup"})
	require.NoError(t, err)

	mine, err := fx.svc.ListMyRequests(fx.student.ID, 20, 0, "th")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.student.ID, mine[0].UserID)
}

func TestListAllRequestsStatusFilter(t *testing.T) {
	fx := newFixture(t)

	r1, err := fx.svc.CreateRequest(fx.student.ID, dto.CreateRequest{DocumentTypeID: fx.typeA.ID, Delivery: "pickup"})
	require.NoError(t, err)
	_, err = fx.svc.CreateRequest(fx.student2.ID, dto.CreateRequest{DocumentTypeID: fx.typeB.ID, Delivery: "pickup"})
	require.NoError(t, err)
	require.NoError(t, fx.svc.UpdateStatus(fx.admin.ID, r1.ID, dto.UpdateStatusRequest{Status: "ready"}))

	ready, err := fx.svc.ListAllRequests("ready", 20, 0, "th")
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, r1.ID, ready[0].ID)

	_, err = fx.svc.ListAllRequests("shipped", 20, 0, "th")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
