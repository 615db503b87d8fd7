package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/patlanio/whispeer/pkg/api/handlers"
	"github.com/patlanio/whispeer/pkg/db"
	"github.com/patlanio/whispeer/pkg/emitter"
	"github.com/patlanio/whispeer/pkg/learning"
	"github.com/patlanio/whispeer/pkg/schema"
)

// BLEBackend is the Bluetooth side of the service: raw advertisement
// emission, adapter enumeration, and tooling availability.
type BLEBackend interface {
	emitter.Sender
	emitter.InterfaceLister
	Available() bool
}

// BroadlinkBackend is the Broadlink side: raw IR/RF emission and
// network discovery.
type BroadlinkBackend interface {
	emitter.Sender
	handlers.Discoverer
}

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	registry  *learning.Registry
	store     *db.DB
	validator *schema.Validator
	ble       BLEBackend
	broadlink BroadlinkBackend
}

// NewRouter creates a new API router
func NewRouter(registry *learning.Registry, store *db.DB, validator *schema.Validator, ble BLEBackend, broadlink BroadlinkBackend) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		registry:  registry,
		store:     store,
		validator: validator,
		ble:       ble,
		broadlink: broadlink,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.store, r.ble)
	r.engine.GET("/health", healthHandler.Health)

	// Embedded control panel
	r.engine.GET("/", Panel)
	r.engine.GET("/panel", Panel)

	// Plugin API routes
	w := r.engine.Group("/api/whispeer")
	{
		w.GET("/health", healthHandler.Health)

		// Learning sessions
		learnHandler := handlers.NewLearnHandler(r.registry)
		w.POST("/prepare_to_learn", learnHandler.PrepareToLearn)
		w.POST("/check_learned_command", learnHandler.CheckLearnedCommand)

		// Emission
		sendHandler := handlers.NewSendHandler(r.store, r.broadlink, r.ble)
		w.POST("/send_command", sendHandler.SendCommand)
		w.POST("/send_ble_signal", sendHandler.SendBLESignal)
		w.POST("/send_broadlink_signal", sendHandler.SendBroadlinkSignal)

		// Transceivers
		interfacesHandler := handlers.NewInterfacesHandler(r.ble, r.broadlink)
		w.POST("/get_interfaces", interfacesHandler.GetInterfaces)
		w.POST("/discover_broadlink_devices", interfacesHandler.DiscoverBroadlinkDevices)

		// Saved devices
		devicesHandler := handlers.NewDevicesHandler(r.store, r.validator)
		w.GET("/devices", devicesHandler.ListDevices)
		w.POST("/devices", devicesHandler.CreateDevice)
		w.DELETE("/device/:id", devicesHandler.DeleteDevice)
		w.POST("/device/:id", sendHandler.TestDevice)
	}
}

// Engine exposes the underlying Gin engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
