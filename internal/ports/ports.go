// Package ports declares the storage interfaces the services depend on.
// Implementations live in internal/memory and internal/storage.
package ports

import (
	"context"

	"household/internal/core"
)

// Stores return copies. Get and the flag setters return core.ErrNotFound for
// unknown ids; Add returns core.ErrDuplicateID when the id is taken.
type (
	BillStore interface {
		ListBills(ctx context.Context) ([]core.Bill, error)
		GetBill(ctx context.Context, id string) (core.Bill, error)
		AddBill(ctx context.Context, b core.Bill) error
		// SetBillPaid persists the paid flag and returns the updated bill.
		SetBillPaid(ctx context.Context, id string, paid bool) (core.Bill, error)
	}

	SubscriptionStore interface {
		ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
		AddSubscription(ctx context.Context, s core.Subscription) error
	}

	VehicleStore interface {
		ListVehicles(ctx context.Context) ([]core.Vehicle, error)
		AddVehicle(ctx context.Context, v core.Vehicle) error
	}

	// ServiceRecordStore holds vehicle maintenance history. Both methods
	// return core.ErrNotFound when the vehicle does not exist.
	ServiceRecordStore interface {
		ListServiceRecords(ctx context.Context, vehicleID string) ([]core.ServiceRecord, error)
		AddServiceRecord(ctx context.Context, r core.ServiceRecord) error
	}

	PasswordStore interface {
		ListPasswords(ctx context.Context) ([]core.PasswordEntry, error)
		AddPassword(ctx context.Context, p core.PasswordEntry) error
	}

	TaskStore interface {
		ListTasks(ctx context.Context) ([]core.Task, error)
		GetTask(ctx context.Context, id string) (core.Task, error)
		AddTask(ctx context.Context, t core.Task) error
		// SetTaskCompleted persists the completion flag and returns the updated task.
		SetTaskCompleted(ctx context.Context, id string, completed bool) (core.Task, error)
	}

	// Store is the full set of collections a backend provides.
	Store interface {
		BillStore
		SubscriptionStore
		VehicleStore
		ServiceRecordStore
		PasswordStore
		TaskStore
		// Ping reports whether the backend can serve requests.
		Ping(ctx context.Context) error
	}
)
