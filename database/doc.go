// Package database opens a GORM connection with retries and pooling, routes
// GORM logging through the service logger and maps driver failures onto
// application errors. Component plugs it into the lifecycle registry.
package database
