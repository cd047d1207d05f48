package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           fleetd API
// @version         1.0
// @description     HTTP API for resource-aware AI model fleet scheduling.
//
// @contact.name   fleetd maintainers
// @contact.url    https://github.com/your-org/fleetd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
