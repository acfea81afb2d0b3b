// services/http.go
package services

import (
	"fmt"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	_ "github.com/coursefoundry/academy_api/docs"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/services/handlers"
	"github.com/coursefoundry/academy_api/shared"
)

type HttpService struct {
	appContext.DefaultService

	courseSvc      *CourseService
	editorSvc      *EditorService
	progressSvc    *ProgressService
	quizSvc        *QuizService
	certificateSvc *CertificateService
	mediaSvc       *MediaService
	monitoringSvc  *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	svc.editorSvc = svc.Service(EDITOR_SVC).(*EditorService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.quizSvc = svc.Service(QUIZ_SVC).(*QuizService)
	svc.certificateSvc = svc.Service(CERTIFICATE_SVC).(*CertificateService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  shared.Marshal,
		JSONDecoder:  shared.Unmarshal,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	svc.registerRoutes(app)

	svc.server = app
	log.Info().Int("port", svc.port).Msg("HTTP server started")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	courseHandler := handlers.NewCourseHandler(svc.courseSvc)
	editorHandler := handlers.NewEditorHandler(svc.courseSvc, svc.editorSvc)
	progressHandler := handlers.NewProgressHandler(svc.courseSvc, svc.progressSvc, func(tree *model.CourseWithStructure) handlers.NavigatorInterface {
		return NewNavigator(tree)
	})
	quizHandler := handlers.NewQuizHandler(svc.quizSvc)
	certificateHandler := handlers.NewCertificateHandler(svc.certificateSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)

	v1 := app.Group("/api/v1")

	// Course metadata and structure
	courses := v1.Group("/courses")
	courses.Post("/", courseHandler.CreateCourse)
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:courseId", courseHandler.GetCourse)
	courses.Put("/:courseId", courseHandler.UpdateCourse)
	courses.Delete("/:courseId", courseHandler.DeleteCourse)
	courses.Get("/:courseId/structure", courseHandler.GetCourseStructure)
	courses.Post("/:courseId/publish", courseHandler.PublishCourse)
	courses.Post("/:courseId/assign", courseHandler.AssignCourse)

	// Structure editing
	courses.Post("/:courseId/chapters", editorHandler.AddChapter)
	courses.Put("/:courseId/chapters/reorder", editorHandler.ReorderChapters)
	courses.Delete("/:courseId/chapters/:chapterId", editorHandler.DeleteChapter)
	courses.Post("/:courseId/sections", editorHandler.AddSection)
	courses.Delete("/:courseId/sections/:sectionId", editorHandler.DeleteSection)
	courses.Put("/:courseId/chapters/:chapterId/sections/reorder", editorHandler.ReorderSections)
	courses.Put("/:courseId/sections/:sectionId/move", editorHandler.MoveSection)
	courses.Post("/:courseId/blocks", editorHandler.AddBlock)
	courses.Put("/:courseId/blocks/:blockId", editorHandler.UpdateBlock)
	courses.Delete("/:courseId/blocks/:blockId", editorHandler.DeleteBlock)
	courses.Put("/:courseId/sections/:sectionId/blocks/reorder", editorHandler.ReorderBlocks)
	courses.Put("/:courseId/blocks/:blockId/move", editorHandler.MoveBlock)

	// Progress and navigation
	courses.Get("/:courseId/progress", svc.requireUser, progressHandler.GetProgress)
	courses.Delete("/:courseId/progress", svc.requireUser, progressHandler.ResetProgress)
	courses.Post("/:courseId/progress/time", svc.requireUser, progressHandler.AddTimeSpent)
	courses.Post("/:courseId/blocks/:blockId/validate", svc.requireUser, progressHandler.ValidateBlock)
	courses.Post("/:courseId/sections/:sectionId/validate", svc.requireUser, progressHandler.ValidateSection)
	courses.Post("/:courseId/navigate", progressHandler.Navigate)

	// Quizzes
	courses.Put("/:courseId/chapters/:chapterId/quiz", quizHandler.UpdateQuizSettings)
	courses.Post("/:courseId/chapters/:chapterId/quiz/questions", quizHandler.AddQuestion)
	courses.Post("/:courseId/chapters/:chapterId/quiz/attempts", svc.requireUser, quizHandler.StartAttempt)
	courses.Get("/:courseId/chapters/:chapterId/quiz/attempts", svc.requireUser, quizHandler.ListAttempts)
	v1.Delete("/quiz/questions/:questionId", quizHandler.DeleteQuestion)
	v1.Post("/quiz/attempts/:attemptId/submit", svc.requireUser, quizHandler.SubmitAttempt)

	// Certificates
	courses.Post("/:courseId/certificate", svc.requireUser, certificateHandler.IssueCertificate)
	courses.Get("/:courseId/certificate", svc.requireUser, certificateHandler.GetCertificate)
	v1.Get("/certificates/verify", certificateHandler.VerifyCertificate)

	// Media
	courses.Post("/:courseId/media", mediaHandler.UploadMedia)
	v1.Get("/media/url", mediaHandler.GetMediaURL)
	v1.Delete("/media", mediaHandler.DeleteMedia)
}

// requireUser resolves the calling user from the X-User-ID header. Identity
// is taken on trust; authentication lives at the gateway.
func (svc *HttpService) requireUser(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return shared.NewBadRequestError(nil, "X-User-ID header is required")
	}
	c.Locals(shared.UserID, userID)
	return c.Next()
}

func (svc *HttpService) ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}
	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
