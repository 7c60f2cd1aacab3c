package server

import (
	"html/template"
	"net/http"

	"inventory-tracker/internal/config"
	"inventory-tracker/internal/handlers"
	"inventory-tracker/internal/middleware"
	"inventory-tracker/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Config   *config.Config
	Sessions sessions.Store
	Handlers *handlers.Handlers
	Users    middleware.UserLookup
	Logger   *zap.Logger
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(opts.Logger), gin.Recovery())

	tmpl := template.Must(template.New("").Funcs(handlers.TemplateFuncs()).ParseFS(web.Templates, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.Use(sessions.Sessions(sessionName, opts.Sessions))
	r.Use(middleware.InjectUser(opts.Users))

	h := opts.Handlers

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/", h.Index)

	// auth
	guest := r.Group("/", middleware.RedirectIfAuthenticated("/dashboard"))
	guest.GET("/login", h.ShowLogin)
	guest.POST("/login", h.Login)
	guest.GET("/register", h.ShowRegister)
	guest.POST("/register", h.Register)
	r.GET("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", h.Dashboard)

	auth.GET("/departments", h.ListDepartments)
	auth.GET("/departments/add", h.ShowNewDepartment)
	auth.POST("/departments/add", h.CreateDepartment)
	auth.GET("/departments/edit/:id", h.ShowEditDepartment)
	auth.POST("/departments/edit/:id", h.UpdateDepartment)
	auth.POST("/departments/delete/:id", h.DeleteDepartment)

	auth.GET("/areas", h.ListAreas)
	auth.GET("/areas/add", h.ShowNewArea)
	auth.POST("/areas/add", h.CreateArea)
	auth.GET("/areas/edit/:id", h.ShowEditArea)
	auth.POST("/areas/edit/:id", h.UpdateArea)
	auth.POST("/areas/delete/:id", h.DeleteArea)

	auth.GET("/personnel", h.ListPersonnel)
	auth.GET("/personnel/add", h.ShowNewPersonnel)
	auth.POST("/personnel/add", h.CreatePersonnel)
	auth.GET("/personnel/edit/:id", h.ShowEditPersonnel)
	auth.POST("/personnel/edit/:id", h.UpdatePersonnel)
	auth.POST("/personnel/delete/:id", h.DeletePersonnel)

	uploadLimit := limitBody(opts.Config.MaxUploadBytes)
	auth.GET("/equipment", h.ListEquipment)
	auth.GET("/equipment/export", h.ExportEquipment)
	auth.GET("/equipment/view/:id", h.ViewEquipment)
	auth.GET("/equipment/add", h.ShowNewEquipment)
	auth.POST("/equipment/add", uploadLimit, h.CreateEquipment)
	auth.GET("/equipment/edit/:id", h.ShowEditEquipment)
	auth.POST("/equipment/edit/:id", uploadLimit, h.UpdateEquipment)
	auth.POST("/equipment/delete/:id", h.DeleteEquipment)

	auth.GET("/assignments", h.ListAssignments)
	auth.GET("/assignments/add", h.ShowNewAssignment)
	auth.POST("/assignments/add", h.CreateAssignment)
	auth.GET("/assignments/edit/:id", h.ShowEditAssignment)
	auth.POST("/assignments/edit/:id", h.UpdateAssignment)
	auth.POST("/assignments/return/:id", h.ReturnAssignment)
	auth.POST("/assignments/delete/:id", h.DeleteAssignment)

	auth.GET("/uploads/:filename", h.ServeImage)
	auth.GET("/api/equipment/:id/ip", h.EquipmentIP)

	return r
}

// limitBody caps request bodies at the upload limit plus room for the
// other form fields.
func limitBody(maxUpload int64) gin.HandlerFunc {
	if maxUpload <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limit := maxUpload + 1<<20
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
