package api

import (
	"log"

	"github.com/SundayYogurt/document_service/config"
	"github.com/SundayYogurt/document_service/infra/queue"
	"github.com/SundayYogurt/document_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/document_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/document_service/internal/clients/telegram"
	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/helper"
	"github.com/SundayYogurt/document_service/internal/interfaces"
	"github.com/SundayYogurt/document_service/internal/repository"
	"github.com/SundayYogurt/document_service/internal/services"
	"github.com/SundayYogurt/document_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	// ใช้เลขคงที่ตัวเดียวกันทั้งระบบเพื่อ lock งาน migrate
	const migrateLockID int64 = 20260901

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.Faculty{},
		&domain.DocumentType{},
		&domain.User{},
		&domain.DocumentRequest{},
		&domain.DocumentRequestItem{},
		&domain.RequestStatusHistory{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	docTypeRepo := repository.NewDocumentTypeRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	reportRepo := repository.NewReportRepository(db)

	seedCatalog(docTypeRepo, facultyRepo)
	seedAdmin(db, cfg)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	if kafkaProducer == nil {
		log.Println("kafka not configured - events disabled")
	}

	// audit consumer รันในโปรเซสเดียวกันไปก่อน ย้ายออกได้โดยไม่แตะ producer
	if kafkaProducer != nil && cfg.KafkaGroupID != "" {
		consumer := queue.NewKafkaConsumer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaGroupID,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
			services.NewEventAuditor(),
		)
		go consumer.Listen()
	}

	var uploader interfaces.Uploader
	if cfg.CloudinaryUrl != "" {
		cld, err := cloudinary.New()
		if err != nil {
			log.Fatalf("cloudinary init error: %v", err)
		}
		uploader = cloudinary.NewCloudinaryUploader(cld)
	} else {
		log.Println("cloudinary not configured - payment slip upload disabled")
	}

	var pusher interfaces.Pusher
	if cfg.Telegram.Enabled() {
		tg, err := telegram.New(cfg.Telegram.BotToken)
		if err != nil {
			// แจ้งเตือนเป็น best-effort อยู่แล้ว ไม่ต้องล้มทั้ง service
			log.Printf("telegram init error: %v - notifications disabled", err)
		} else {
			pusher = tg
		}
	} else {
		log.Println("telegram not configured - notifications disabled")
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Services ----------
	notifySvc := services.NewNotifyService(pusher, services.NotifyConfig{
		GroupChatID:    cfg.Telegram.GroupChatID,
		StaffChatIDs:   cfg.Telegram.StaffChatIDs,
		FallbackChatID: cfg.Telegram.FallbackChatID,
	})
	userSvc := services.NewUserService(userRepo, facultyRepo, authHelper)
	catalogSvc := services.NewCatalogService(docTypeRepo, facultyRepo)
	requestSvc := services.NewRequestService(requestRepo, docTypeRepo, userRepo, notifySvc, kafkaProducer)
	reportSvc := services.NewReportService(reportRepo, docTypeRepo)

	// ---------- Middleware ----------
	authMw := middleware.AuthMiddleware(authHelper)
	adminOnly := middleware.AdminOnly(userSvc)

	// ---------- Handlers ----------
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app, authMw, adminOnly)
	handlers.NewRequestHandler(requestSvc, catalogSvc).SetupRoutes(app, authMw, adminOnly)
	handlers.NewUploadHandler(uploader, requestSvc).SetupRoutes(app, authMw)
	handlers.NewReportHandler(reportSvc).SetupRoutes(app, authMw, adminOnly)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// seedCatalog: reference data ต้องมีก่อนเปิดรับคำขอ
func seedCatalog(docRepo repository.DocumentTypeRepository, facultyRepo repository.FacultyRepository) {
	docTypes := []domain.DocumentType{
		{NameTH: "ใบรับรองผลการเรียน (Transcript)", NameEN: "Transcript", Price: 100},
		{NameTH: "หนังสือรับรองการเป็นนักศึกษา", NameEN: "Student Status Certificate", Price: 50},
		{NameTH: "หนังสือรับรองคาดว่าจะสำเร็จการศึกษา", NameEN: "Expected Graduation Certificate", Price: 50},
		{NameTH: "ใบแทนปริญญาบัตร", NameEN: "Substitute Diploma", Price: 200},
	}

	existing, err := docRepo.ListAll()
	if err != nil {
		log.Printf("seed catalog: %v", err)
		return
	}
	haveDoc := make(map[string]bool, len(existing))
	for _, dt := range existing {
		haveDoc[dt.NameTH] = true
	}
	for _, dt := range docTypes {
		if haveDoc[dt.NameTH] {
			continue
		}
		d := dt
		if err := docRepo.AddDocumentType(&d); err != nil {
			log.Printf("seed document type %q: %v", d.NameTH, err)
		}
	}

	faculties := []domain.Faculty{
		{NameTH: "คณะวิศวกรรมศาสตร์", NameEN: "Faculty of Engineering"},
		{NameTH: "คณะวิทยาศาสตร์", NameEN: "Faculty of Science"},
		{NameTH: "คณะบริหารธุรกิจ", NameEN: "Faculty of Business Administration"},
		{NameTH: "คณะศิลปศาสตร์", NameEN: "Faculty of Liberal Arts"},
	}

	existingFs, err := facultyRepo.ListAll()
	if err != nil {
		log.Printf("seed faculties: %v", err)
		return
	}
	haveFaculty := make(map[string]bool, len(existingFs))
	for _, f := range existingFs {
		haveFaculty[f.NameTH] = true
	}
	for _, f := range faculties {
		if haveFaculty[f.NameTH] {
			continue
		}
		fc := f
		if err := facultyRepo.AddFaculty(&fc); err != nil {
			log.Printf("seed faculty %q: %v", fc.NameTH, err)
		}
	}
}

// seedAdmin: สร้าง admin คนแรกจาก env ถ้ายังไม่มี admin ในระบบ
func seedAdmin(db *gorm.DB, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	var count int64
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil || count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed admin: hash error: %v", err)
		return
	}

	admin := domain.User{
		StudentCode:  "admin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hashed),
		FirstName:    "System",
		LastName:     "Admin",
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	log.Println("seeded bootstrap admin", cfg.AdminEmail)
}
