package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Sale      *SaleHandler
	Product   *ProductHandler
	Event     *EventHandler
	Treasury  *TreasuryHandler
	Dashboard *DashboardHandler
	Member    *MemberHandler
	Period    *PeriodHandler
}

// Register mounts the REST API under /api/v1.
func Register(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	api.Get("/dashboard/summary", h.Dashboard.GetSummary)

	// Product Routes
	api.Get("/products", h.Product.GetProducts)
	api.Get("/products/stock", h.Product.StockReport)
	api.Get("/products/:id", h.Product.GetProduct)
	api.Post("/products", h.Product.CreateProduct)
	api.Put("/products/:id", h.Product.UpdateProduct)
	api.Post("/products/:id/toggle-active", h.Product.ToggleActive)
	api.Delete("/products/:id", h.Product.DeleteProduct)

	// Sale Routes
	api.Get("/sales", h.Sale.ListSales)
	api.Get("/sales/:id", h.Sale.GetSale)
	api.Post("/sales", h.Sale.CreateSale)
	api.Put("/sales/:id", h.Sale.UpdateSale)
	api.Delete("/sales/:id", h.Sale.DeleteSale)

	// Event Routes
	api.Get("/events", h.Event.GetEvents)
	api.Get("/events/calendar", h.Event.Calendar)
	api.Get("/events/:id", h.Event.GetEvent)
	api.Get("/events/:id/detail", h.Event.Detail)
	api.Post("/events", h.Event.CreateEvent)
	api.Put("/events/:id", h.Event.UpdateEvent)
	api.Delete("/events/:id", h.Event.DeleteEvent)
	api.Post("/events/:id/recompute", h.Event.Recompute)

	// Treasury Routes
	api.Get("/treasury/balance", h.Treasury.Balance)
	api.Get("/treasury/income", h.Treasury.Income)
	api.Get("/treasury/expense", h.Treasury.Expense)
	api.Post("/treasury", h.Treasury.RecordEntry)
	api.Delete("/treasury/:id", h.Treasury.DeleteEntry)

	// Member Routes
	api.Get("/members", h.Member.GetMembers)
	api.Get("/members/:id", h.Member.GetMember)
	api.Post("/members", h.Member.CreateMember)
	api.Post("/members/change-password", h.Member.ChangePassword)
	api.Put("/members/:id", h.Member.UpdateMember)
	api.Delete("/members/:id", h.Member.DeleteMember)
	api.Get("/roles", h.Member.GetRoles)

	// Period Routes
	api.Get("/periods", h.Period.GetPeriods)
	api.Get("/periods/:id", h.Period.GetPeriod)
	api.Post("/periods", h.Period.CreatePeriod)
	api.Put("/periods/:id", h.Period.UpdatePeriod)
	api.Delete("/periods/:id", h.Period.DeletePeriod)
	api.Get("/periods/:id/members", h.Period.GetBoard)
	api.Post("/periods/:id/members", h.Period.AssignRole)
	api.Delete("/periods/:id/members/:membership_id", h.Period.RemoveAssignment)
}
