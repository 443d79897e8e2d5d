package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/sahilverma/nursestation-go/pkg/config"
	"github.com/sahilverma/nursestation-go/pkg/database"
	"github.com/sahilverma/nursestation-go/pkg/handlers"
	"github.com/sahilverma/nursestation-go/pkg/llm"
	"github.com/sahilverma/nursestation-go/pkg/report"
	"github.com/sahilverma/nursestation-go/pkg/roster"
	"github.com/sahilverma/nursestation-go/pkg/session"
	"github.com/sahilverma/nursestation-go/pkg/vitals"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg := config.Load()
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()

	client := llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.APIURL, cfg.LLM.Model)
	monitor := vitals.NewMonitor(vitals.LoadContexts(cfg.Vitals.ContextFile))
	h := handlers.NewHandler(
		db,
		roster.NewGenerator(database.NewRosterStore(db), nil),
		session.NewStore(),
		report.NewGenerator(client),
		client,
		monitor,
	)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	r.GET("/", h.Root)

	// Interview
	r.POST("/chat", h.Chat)
	r.POST("/generate_report", h.GenerateReport)

	sessions := r.Group("/sessions")
	{
		sessions.POST("/", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/chat", h.SessionChat)
		sessions.DELETE("/:id", h.EndSession)
	}

	// Admin backend
	inventory := r.Group("/inventory")
	{
		inventory.GET("/", h.ListInventory)
		inventory.GET("/available", h.ListAvailableInventory)
		inventory.POST("/", h.AddInventoryItem)
		inventory.PUT("/:id", h.UpdateInventoryItem)
		inventory.DELETE("/:id", h.DeleteInventoryItem)
		inventory.GET("/expiring/", h.ExpiringInventory)
		inventory.GET("/low-stock/", h.LowStockInventory)
	}

	billing := r.Group("/billing")
	{
		billing.GET("/", h.ListBilling)
		billing.POST("/", h.CreateBill)
		billing.GET("/pending/", h.PendingBills)
		billing.PUT("/:id/payment", h.UpdatePaymentStatus)
	}

	rosterGroup := r.Group("/roster")
	{
		rosterGroup.GET("/", h.ListRoster)
		rosterGroup.GET("/two-weeks/", h.TwoWeekRoster)
		rosterGroup.DELETE("/:id", h.DeleteRosterEntry)
		rosterGroup.POST("/generate", h.GenerateRoster)
	}

	protocols := r.Group("/protocols")
	{
		protocols.GET("/", h.ListProtocols)
		protocols.POST("/", h.AddProtocol)
		protocols.POST("/upload-pdf/", h.UploadProtocolPDF)
		protocols.GET("/:id/full", h.FullProtocol)
		protocols.DELETE("/:id", h.DeleteProtocol)
		protocols.POST("/ask/", h.AskProtocols)
	}

	analytics := r.Group("/analytics")
	{
		analytics.GET("/dashboard/", h.Dashboard)
		analytics.GET("/inventory-alerts/", h.InventoryAlerts)
	}

	vitalsGroup := r.Group("/api/vitals")
	{
		vitalsGroup.POST("/receive", h.ReceiveVitals)
		vitalsGroup.GET("/history/:patient_id", h.VitalsHistory)
	}

	klog.Infof("server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		klog.Fatalf("could not run server: %v", err)
	}
}
