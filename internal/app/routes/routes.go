package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth          *controllers.AuthController
	Profile       *controllers.ProfileController
	Course        *controllers.CourseController
	Section       *controllers.SectionController
	Lesson        *controllers.LessonController
	LessonVideo   *controllers.LessonVideoController
	Comment       *controllers.CommentController
	Reply         *controllers.ReplyController
	Notification  *controllers.NotificationController
	StartedCourse *controllers.StartedCourseController
	Health        *controllers.HealthController
}

// RateLimits sets the per-IP budgets of the limited endpoints
type RateLimits struct {
	LoginPerMinute int
	MailPerHour    int
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
	limits RateLimits,
) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", ctrl.Health.Health)

	// --- Public routes ---
	v1.POST("/auth/login", limiter.Limit("login", limits.LoginPerMinute, time.Minute), ctrl.Auth.Login)

	v1.GET("/lessons", ctrl.Lesson.ListLessons)
	v1.GET("/lessons/:id", ctrl.Lesson.GetLesson)
	v1.GET("/lessons-search", ctrl.Lesson.Search)
	v1.GET("/lesson-videos", ctrl.LessonVideo.ListVideos)
	v1.GET("/lesson-videos/:id", ctrl.LessonVideo.GetVideo)
	v1.GET("/comments", ctrl.Comment.ListComments)
	v1.GET("/comments/:id", ctrl.Comment.GetComment)
	v1.GET("/reply-to-comments", ctrl.Reply.ListReplies)
	v1.GET("/reply-to-comments/:id", ctrl.Reply.GetReply)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		courses := authenticated.Group("/courses")
		{
			courses.GET("", ctrl.Course.ListCourses)
			courses.POST("", ctrl.Course.CreateCourse)
			courses.GET("/:id", ctrl.Course.GetCourse)
			courses.PUT("/:id", ctrl.Course.UpdateCourse)
			courses.PATCH("/:id", ctrl.Course.PatchCourse)
			courses.DELETE("/:id", ctrl.Course.DeleteCourse)
			courses.POST("/:id/teacher-picture", ctrl.Course.UploadTeacherPicture)
		}

		sections := authenticated.Group("/sections")
		{
			sections.GET("", ctrl.Section.ListSections)
			sections.POST("", ctrl.Section.CreateSection)
			sections.GET("/:id", ctrl.Section.GetSection)
			sections.PUT("/:id", ctrl.Section.UpdateSection)
			sections.PATCH("/:id", ctrl.Section.PatchSection)
			sections.DELETE("/:id", ctrl.Section.DeleteSection)
		}

		lessons := authenticated.Group("/lessons")
		{
			lessons.POST("", ctrl.Lesson.CreateLesson)
			lessons.PUT("/:id", ctrl.Lesson.UpdateLesson)
			lessons.PATCH("/:id", ctrl.Lesson.PatchLesson)
			lessons.DELETE("/:id", ctrl.Lesson.DeleteLesson)
			lessons.POST("/:id/like", ctrl.Lesson.Like)
			lessons.POST("/:id/dislike", ctrl.Lesson.Dislike)
		}

		videos := authenticated.Group("/lesson-videos")
		{
			videos.POST("", ctrl.LessonVideo.CreateVideo)
			videos.PUT("/:id", ctrl.LessonVideo.UpdateVideo)
			videos.PATCH("/:id", ctrl.LessonVideo.PatchVideo)
			videos.DELETE("/:id", ctrl.LessonVideo.DeleteVideo)
		}

		comments := authenticated.Group("/comments")
		{
			comments.POST("", ctrl.Comment.CreateComment)
			comments.PUT("/:id", ctrl.Comment.UpdateComment)
			comments.PATCH("/:id", ctrl.Comment.PatchComment)
			comments.DELETE("/:id", ctrl.Comment.DeleteComment)
		}

		replies := authenticated.Group("/reply-to-comments")
		{
			replies.POST("", ctrl.Reply.CreateReply)
			replies.PUT("/:id", ctrl.Reply.UpdateReply)
			replies.PATCH("/:id", ctrl.Reply.PatchReply)
			replies.DELETE("/:id", ctrl.Reply.DeleteReply)
		}

		started := authenticated.Group("/started-courses")
		{
			started.GET("", ctrl.StartedCourse.ListStarted)
			started.POST("", ctrl.StartedCourse.StartCourses)
		}

		// --- Staff-only routes ---
		staff := authenticated.Group("")
		staff.Use(authMiddleware.StaffRequired())
		{
			profiles := staff.Group("/profile")
			{
				profiles.GET("", ctrl.Profile.ListProfiles)
				profiles.POST("", ctrl.Profile.CreateProfile)
				profiles.GET("/:id", ctrl.Profile.GetProfile)
				profiles.PUT("/:id", ctrl.Profile.UpdateProfile)
				profiles.PATCH("/:id", ctrl.Profile.PatchProfile)
				profiles.DELETE("/:id", ctrl.Profile.DeleteProfile)
				profiles.POST("/:id/picture", ctrl.Profile.UploadPicture)
			}

			staff.POST("/send-mail", limiter.Limit("send_mail", limits.MailPerHour, time.Hour), ctrl.Notification.SendMail)
			staff.GET("/notifications", ctrl.Notification.ListNotifications)
			staff.GET("/notifications/:id/deliveries", ctrl.Notification.ListDeliveries)
		}
	}
}
