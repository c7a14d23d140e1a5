package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Backend names the driver and holds whichever connection it needs.
type Backend struct {
	Driver string
	DB     *gorm.DB
	Mongo  *mongo.Database
}

// Validate checks that the connection for the chosen driver is present.
func (b Backend) Validate() error {
	switch b.Driver {
	case DriverMemory, "":
		return nil
	case DriverPostgres:
		if b.DB == nil {
			return fmt.Errorf("store driver %q needs a database connection", b.Driver)
		}
	case DriverMongo:
		if b.Mongo == nil {
			return fmt.Errorf("store driver %q needs a mongo database", b.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", b.Driver)
	}
	return nil
}

// For returns the repository for T on this backend. Call Validate first;
// unknown drivers fall back to memory.
func For[T Document](b Backend) Repository[T] {
	switch b.Driver {
	case DriverPostgres:
		return NewGorm[T](b.DB)
	case DriverMongo:
		return NewMongo[T](b.Mongo)
	default:
		return NewMemory[T]()
	}
}
