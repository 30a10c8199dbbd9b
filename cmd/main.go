// cmd/main.go
package main

import (
	"go-user-api/app"
)

// @title           User Management API
// @version         1.0
// @description     User management and authentication API with role-based access control.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
