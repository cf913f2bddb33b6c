package main

// @title Inventory Intelligence API
// @version 1.0
// @description Inventory service with hierarchical categories, search, low stock alerts and asynchronous exports, with full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/gemdesk/inventory-service
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/gemdesk/inventory-service/blob/main/LICENSE

// @host localhost:8082
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Categories
// @tag.description Hierarchical category tree endpoints

// @tag.name Items
// @tag.description Inventory item and stock ledger endpoints

// @tag.name Alerts
// @tag.description Low stock alert feed endpoints

// @tag.name Exports
// @tag.description Asynchronous export job endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
