package repository

import (
	"testing"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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

func seedRequest(t *testing.T, db *gorm.DB) *domain.DocumentRequest {
	t.Helper()

	user := domain.User{StudentCode: "65010001", Email: "a@u.ac.th", FirstName: "A", LastName: "B", Role: domain.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	docType := domain.DocumentType{NameTH: "ใบรับรองผลการเรียน", Price: 100}
	require.NoError(t, db.Create(&docType).Error)

	req := &domain.DocumentRequest{
		UserID:         user.ID,
		DocumentTypeID: docType.ID,
		Delivery:       domain.DeliveryPickup,
		TotalPrice:     100,
		Status:         domain.RequestStatusPending,
	}
	require.NoError(t, db.Create(req).Error)
	return req
}

func TestCreateWithItemsPersistsParentAndChildren(t *testing.T) {
	db := setupDB(t)
	repo := NewRequestRepository(db)

	user := domain.User{StudentCode: "65010001", Email: "a@u.ac.th", FirstName: "A", LastName: "B"}
	require.NoError(t, db.Create(&user).Error)
	docType := domain.DocumentType{NameTH: "ใบรับรองผลการเรียน", Price: 100}
	require.NoError(t, db.Create(&docType).Error)

	req := &domain.DocumentRequest{
		UserID:         user.ID,
		DocumentTypeID: docType.ID,
		Delivery:       domain.DeliveryMail,
		TotalPrice:     400,
		Status:         domain.RequestStatusPending,
	}
	items := []domain.DocumentRequestItem{
		{DocumentTypeID: docType.ID, Quantity: 2, UnitPrice: 100, Subtotal: 200},
	}

	require.NoError(t, repo.CreateWithItems(req, items))
	require.NotZero(t, req.ID)

	found, err := repo.FindByID(req.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, req.ID, found.Items[0].RequestID)
}

func TestUpdateStatusWithHistoryIsAtomic(t *testing.T) {
	db := setupDB(t)
	repo := NewRequestRepository(db)
	req := seedRequest(t, db)

	// history insert ล้ม -> การเปลี่ยน status ต้อง roll back ด้วย
	require.NoError(t, db.Migrator().DropTable(&domain.RequestStatusHistory{}))

	err := repo.UpdateStatusWithHistory(req.ID, domain.RequestStatusProcessing, nil, 1)
	require.Error(t, err)

	var after domain.DocumentRequest
	require.NoError(t, db.First(&after, req.ID).Error)
	assert.Equal(t, domain.RequestStatusPending, after.Status)
}

func TestUpdateStatusWithHistoryUnknownID(t *testing.T) {
	db := setupDB(t)
	repo := NewRequestRepository(db)

	err := repo.UpdateStatusWithHistory(4242, domain.RequestStatusProcessing, nil, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&domain.RequestStatusHistory{}).Count(&count)
	assert.Zero(t, count)
}

func TestListHistoryOrderAndScope(t *testing.T) {
	db := setupDB(t)
	repo := NewRequestRepository(db)
	req := seedRequest(t, db)
	other := seedOther(t, db, req)

	actor := uint(1)
	for _, st := range []domain.RequestStatus{domain.RequestStatusProcessing, domain.RequestStatusReady} {
		require.NoError(t, repo.UpdateStatusWithHistory(req.ID, st, nil, actor))
	}
	require.NoError(t, repo.UpdateStatusWithHistory(other.ID, domain.RequestStatusRejected, nil, actor))

	rows, err := repo.ListHistory(req.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.RequestStatusReady, rows[0].Status)
	assert.Equal(t, domain.RequestStatusProcessing, rows[1].Status)
}

func seedOther(t *testing.T, db *gorm.DB, base *domain.DocumentRequest) *domain.DocumentRequest {
	t.Helper()
	other := &domain.DocumentRequest{
		UserID:         base.UserID,
		DocumentTypeID: base.DocumentTypeID,
		Delivery:       domain.DeliveryPickup,
		TotalPrice:     100,
		Status:         domain.RequestStatusPending,
	}
	require.NoError(t, db.Create(other).Error)
	return other
}

func TestSetPaymentProofURL(t *testing.T) {
	db := setupDB(t)
	repo := NewRequestRepository(db)
	req := seedRequest(t, db)

	require.NoError(t, repo.SetPaymentProofURL(req.ID, "https://cdn.example/slip.jpg"))

	var after domain.DocumentRequest
	require.NoError(t, db.First(&after, req.ID).Error)
	require.NotNil(t, after.PaymentProofURL)
	assert.Equal(t, "https://cdn.example/slip.jpg", *after.PaymentProofURL)

	assert.ErrorIs(t, repo.SetPaymentProofURL(4242, "x"), gorm.ErrRecordNotFound)
}
