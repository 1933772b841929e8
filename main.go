package main

import (
	"net/http"

	"flood-alert-backend/auth"
	"flood-alert-backend/config"
	"flood-alert-backend/controllers"
	"flood-alert-backend/driver"
	"flood-alert-backend/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, reading configuration from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := driver.ConnectDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := driver.Migrate(db); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}

	authService := auth.NewService(cfg.Secret, cfg.TokenTTL)

	userController := controllers.UserController{Auth: authService}
	ngoController := controllers.NGOController{}
	campaignController := controllers.CampaignController{Auth: authService}
	reportController := controllers.ReportController{Auth: authService, Bucket: cfg.ReportsBucket, Region: cfg.AWSRegion}
	taskController := controllers.TaskController{}
	waterStationController := controllers.NewWaterStationController(cfg)

	router := mux.NewRouter()

	router.HandleFunc("/", home).Methods("GET")

	router.HandleFunc("/sync-water-levels", waterStationController.SyncWaterLevels(db)).Methods("POST")
	router.HandleFunc("/water-levels", waterStationController.GetWaterLevels(db)).Methods("GET")

	router.HandleFunc("/auth/signup", userController.Signup(db)).Methods("POST")
	router.HandleFunc("/auth/signup-ngo", userController.SignupNGO(db)).Methods("POST")
	router.HandleFunc("/auth/login", userController.Login(db)).Methods("POST")
	router.HandleFunc("/auth/me", userController.GetMe(db)).Methods("GET")

	router.HandleFunc("/tasks/create", taskController.CreateTask(db)).Methods("POST")
	router.HandleFunc("/tasks/{volunteer_id}", taskController.GetTasksByVolunteer(db)).Methods("GET")
	router.HandleFunc("/tasks/{task_id}/update-status", taskController.UpdateTaskStatus(db)).Methods("PATCH")

	router.HandleFunc("/campaigns/", campaignController.CreateCampaign(db)).Methods("POST")
	router.HandleFunc("/campaigns/", campaignController.GetCampaigns(db)).Methods("GET")

	router.HandleFunc("/reports/", reportController.CreateReport(db)).Methods("POST")
	router.HandleFunc("/reports/", reportController.GetReports(db)).Methods("GET")
	router.HandleFunc("/reports/{report_id}/photo", reportController.UploadReportPhoto(db)).Methods("POST")

	router.HandleFunc("/admin/verify-ngo/{ngo_id}", ngoController.VerifyNGO(db)).Methods("PUT")
	router.HandleFunc("/admin/unverified-ngos", ngoController.GetUnverifiedNGOs(db)).Methods("GET")
	router.HandleFunc("/ngos/", ngoController.GetNGOs(db)).Methods("GET")

	// CORS wraps the router itself so preflight requests are answered even
	// for paths with no OPTIONS route registered.
	handler := corsMiddleware(requestLogMiddleware(router))

	log.Infof("server started on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}

func home(w http.ResponseWriter, r *http.Request) {
	utils.ResponseJSON(w, map[string]string{"message": "Flood Alert System is Online 🚀"})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Info("request")
		next.ServeHTTP(w, r)
	})
}
