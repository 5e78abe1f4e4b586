// Package database handles the MySQL connection for the asset library.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// configures the connection from the application's configuration, including
// DSN timeouts and connection pool limits.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
// Schema migration and queries live in the library package, which owns the
// models stored in this database.
package database
