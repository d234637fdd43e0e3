package routes

import (
	"bsg-portal/registry/internal/api"
	"bsg-portal/registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes. Groups nest from public to
// admin; services repeat the role checks so a mis-mounted route still fails closed.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {
	authn := deps.Services.Identity
	limiter := middleware.NewLoginLimiter(deps.Config.LoginRatePerMinute)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public
		v1.Group(func(public chi.Router) {
			public.Use(limiter.Middleware)
			public.Post("/auth/uid-login", handlers.LoginWithUID())
			public.Post("/auth/sign-in", handlers.SignIn())
		})

		v1.Group(func(optional chi.Router) {
			optional.Use(middleware.OptionalAuthMiddleware(authn))
			optional.Get("/activities", handlers.ListActivities())
		})

		// Any signed-in member
		v1.Group(func(member chi.Router) {
			member.Use(middleware.AuthMiddleware(authn))
			member.Use(middleware.IsMemberMiddleware())

			member.Post("/auth/sign-out", handlers.SignOut())
			member.Post("/auth/refresh", handlers.RefreshSession())
			member.Get("/auth/me", handlers.Me())

			member.Get("/members/{id}", handlers.GetMember())
			member.Put("/members/{id}/photo", handlers.SetProfilePhoto())
			member.Get("/roles/{userID}", handlers.MemberRoles())

			member.Post("/activities/{id}/registration", handlers.RegisterForActivity())
			member.Delete("/activities/{id}/registration", handlers.UnregisterFromActivity())

			member.Get("/attendance/members/{userID}", handlers.ListMemberAttendance())

			member.Get("/inventory/resources", handlers.ListResources())
			member.Get("/inventory/assignments/members/{userID}", handlers.ListMemberAssignments())

			member.Get("/leaves", handlers.ListLeaves())
			member.Post("/leaves", handlers.SubmitLeave())

			member.Get("/announcements", handlers.ListAnnouncements())
			member.Get("/meetings", handlers.ListMeetings())
			member.Get("/certificates", handlers.ListCertificates())

			member.Get("/notifications", handlers.ListNotifications())
			member.Post("/notifications/read", handlers.MarkAllNotificationsRead())
			member.Post("/notifications/{id}/read", handlers.MarkNotificationRead())

			member.Post("/storage/sign", handlers.SignBlobURL())
			member.Post("/storage/{bucket}", handlers.UploadBlob())

			// Admin and coordinator
			member.Group(func(staff chi.Router) {
				staff.Use(middleware.IsStaffMiddleware())

				staff.Get("/members", handlers.ListMembers())
				staff.Post("/members", handlers.IssueMember())
				staff.Patch("/members/{id}", handlers.UpdateMember())
				staff.Put("/members/{id}/status", handlers.SetMemberStatus())
				staff.Post("/members/{id}/status/toggle", handlers.ToggleMemberStatus())
				staff.Delete("/members/{id}", handlers.DeleteMember())

				staff.Post("/activities", handlers.CreateActivity())
				staff.Patch("/activities/{id}", handlers.UpdateActivity())
				staff.Delete("/activities/{id}", handlers.DeleteActivity())
				staff.Get("/activities/{id}/registrations", handlers.ListActivityRegistrations())

				staff.Post("/attendance", handlers.MarkAttendance())
				staff.Get("/attendance", handlers.ListEventAttendance())

				staff.Post("/inventory/resources", handlers.CreateResource())
				staff.Get("/inventory/assignments", handlers.ListActiveAssignments())
				staff.Post("/inventory/assignments", handlers.AssignResource())
				staff.Post("/inventory/assignments/{id}/return", handlers.ReturnAssignment())

				staff.Post("/leaves/{id}/review", handlers.ReviewLeave())

				staff.Post("/announcements", handlers.CreateAnnouncement())
				staff.Delete("/announcements/{id}", handlers.DeleteAnnouncement())

				staff.Post("/meetings", handlers.CreateMeeting())
				staff.Patch("/meetings/{id}", handlers.UpdateMeeting())
				staff.Put("/meetings/{id}/minutes", handlers.SetMeetingMinutes())
				staff.Delete("/meetings/{id}", handlers.DeleteMeeting())

				staff.Post("/certificates", handlers.IssueCertificate())
				staff.Delete("/certificates/{id}", handlers.DeleteCertificate())

				staff.Get("/dashboard/stats", handlers.DashboardStats())

				// Admin only
				staff.Group(func(admin chi.Router) {
					admin.Use(middleware.IsAdminMiddleware())
					admin.Post("/roles/{userID}", handlers.AssignRole())
					admin.Delete("/roles/{userID}/{role}", handlers.RevokeRole())
				})
			})
		})
	})
}
