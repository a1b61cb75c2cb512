package service

import (
	"JapaneseShikhi/internal/service/course/curriculum"
	"JapaneseShikhi/internal/service/course/management"
	"JapaneseShikhi/internal/service/course/query"
	"JapaneseShikhi/internal/service/course/rating"
	"JapaneseShikhi/internal/service/enrollment"
	"JapaneseShikhi/internal/service/identity"
	"JapaneseShikhi/internal/service/message"
	"JapaneseShikhi/internal/service/progress"
	"JapaneseShikhi/internal/service/reconcile"
	"JapaneseShikhi/internal/service/upload"
	"JapaneseShikhi/internal/service/videocall"
)

type Collection struct {
	*identity.IdentityService
	*management.CourseManagementService
	*query.CourseQueryService
	*curriculum.CurriculumService
	*rating.CourseRatingService
	*enrollment.EnrollmentService
	*progress.ProgressService
	*message.MessageService
	*videocall.VideoCallService
	*upload.UploadService
	*reconcile.Reconciler
}
