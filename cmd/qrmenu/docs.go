package main

// @title QR Menu Ordering API
// @version 1.0
// @description Table-side ordering: menu, orders with atomic stock reservation, table occupancy and live updates
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/qr-order
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/qr-order/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Menu
// @tag.description Public menu

// @tag.name Orders
// @tag.description Order placement and the staff order board

// @tag.name Products
// @tag.description Catalogue and stock administration

// @tag.name Tables
// @tag.description Table lookup, merge and split

// @tag.name Events
// @tag.description Server-sent live updates
