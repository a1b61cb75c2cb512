package http

import (
	"JapaneseShikhi/internal/delivery/http/controllers"
	"JapaneseShikhi/internal/delivery/http/controllers/admin"
	"JapaneseShikhi/internal/delivery/http/controllers/course"
	"JapaneseShikhi/internal/delivery/http/controllers/enrollment"
	"JapaneseShikhi/internal/delivery/http/controllers/message"
	"JapaneseShikhi/internal/delivery/http/controllers/middleware"
	"JapaneseShikhi/internal/delivery/http/controllers/progress"
	"JapaneseShikhi/internal/delivery/http/controllers/upload"
	"JapaneseShikhi/internal/delivery/http/controllers/video"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/internal/service"
	"JapaneseShikhi/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection, allowOrigins []string, checks map[string]controllers.HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler(checks)
	authProvider := middleware.NewAuthMiddlewareProvider(l, u.IdentityService)
	managementController := course.NewManagementHandler(l, u.CourseManagementService)
	queryController := course.NewQueryHandler(l, u.CourseQueryService)
	curriculumController := course.NewCurriculumHandler(l, u.CurriculumService)
	ratingController := course.NewRatingHandler(l, u.CourseRatingService)
	enrollmentController := enrollment.NewEnrollmentHandler(l, u.EnrollmentService)
	progressController := progress.NewProgressHandler(l, u.ProgressService)
	messageController := message.NewMessageHandler(l, u.MessageService)
	videoController := video.NewVideoHandler(l, u.VideoCallService)
	uploadController := upload.NewUploadHandler(l, u.UploadService)
	reconcileController := admin.NewReconcileHandler(l, u.Reconciler)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)
		v1.GET("/certificates/:certificate_id", progressController.VerifyCertificate)
		v1.GET("/leaderboard", progressController.Leaderboard)
		v1.GET("/files/*key", uploadController.File)

		courses := v1.Group("/courses", authProvider.OptionalAuth)
		{
			courses.GET("", queryController.ListCoursePreview)
			courses.GET("/search", queryController.SearchCourses)
			courses.GET("/:slug", queryController.CourseBySlug)
			courses.GET("/:slug/ratings", ratingController.Ratings)
		}

		authed := v1.Group("", authProvider.AuthMiddleware)
		{
			authed.GET("/me", progressController.Me)
			authed.PUT("/me/courses/:course_id/progress", progressController.UpdateProgress)
			authed.POST("/me/courses/:course_id/complete", progressController.MarkComplete)
			authed.POST("/me/streak", progressController.IncrementStreak)
			authed.DELETE("/me/streak", progressController.ResetStreak)

			authed.POST("/courses/:slug/ratings", ratingController.RateCourse)
			authed.DELETE("/ratings/:rating_id", ratingController.DeleteRating)

			authed.POST("/enrollments", enrollmentController.Submit)
			authed.GET("/enrollments/mine", enrollmentController.Mine)
			authed.GET("/enrollments/:request_id", enrollmentController.Get)

			authed.POST("/messages", messageController.Send)
			authed.GET("/messages", messageController.Inbox)
			authed.GET("/messages/unread-count", messageController.UnreadCount)
			authed.GET("/messages/threads/:thread_id", messageController.Thread)
			authed.PATCH("/messages/:message_id/read", messageController.MarkRead)

			authed.POST("/video/token", videoController.Token)
			authed.POST("/uploads/screenshot", uploadController.UploadScreenshot)
		}

		adminGroup := v1.Group("/admin", authProvider.AuthMiddleware, middleware.RequireCapability(models.CapabilityAdmin))
		{
			adminGroup.GET("/courses", queryController.ListCoursePreview)
			adminGroup.POST("/courses", managementController.CreateCourse)
			adminGroup.PATCH("/courses/:course_id", managementController.UpdateCourse)
			adminGroup.PATCH("/courses/:course_id/publish", managementController.PublishCourse)
			adminGroup.PATCH("/courses/:course_id/unpublish", managementController.UnpublishCourse)

			adminGroup.GET("/courses/:course_id/curriculum", curriculumController.GetCurriculum)
			adminGroup.POST("/courses/:course_id/modules", curriculumController.AddModule)
			adminGroup.PATCH("/courses/:course_id/modules/swap", curriculumController.SwapModules)
			adminGroup.PATCH("/courses/:course_id/modules/:module_index", curriculumController.UpdateModule)
			adminGroup.DELETE("/courses/:course_id/modules/:module_index", curriculumController.DeleteModule)
			adminGroup.PATCH("/courses/:course_id/modules/:module_index/publish", curriculumController.PublishModule)
			adminGroup.POST("/courses/:course_id/modules/:module_index/items", curriculumController.AddItem)
			adminGroup.POST("/courses/:course_id/modules/:module_index/links", curriculumController.AddLink)

			adminGroup.GET("/enrollments", enrollmentController.List)
			adminGroup.PATCH("/enrollments/:request_id/approve", enrollmentController.Approve)
			adminGroup.PATCH("/enrollments/:request_id/reject", enrollmentController.Reject)
			adminGroup.DELETE("/enrollments/:request_id", enrollmentController.Unenroll)

			adminGroup.POST("/uploads", uploadController.UploadAttachment)
			adminGroup.POST("/reconcile", reconcileController.Run)
		}
	}
	return r
}
