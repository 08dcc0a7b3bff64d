package repository

import (
	"testing"

	"ginhawa/pkg/model"
)

func TestCollectionFor(t *testing.T) {
	if got := CollectionFor(model.AccountStaff); got != StaffCollection {
		t.Errorf("expected %s, got %s", StaffCollection, got)
	}
	if got := CollectionFor(model.AccountCustomer); got != CustomersCollection {
		t.Errorf("expected %s, got %s", CustomersCollection, got)
	}
}

func TestStaffFilter(t *testing.T) {
	if len(staffFilter("")) != 0 {
		t.Error("expected empty filter")
	}
	got := staffFilter(model.DepartmentKitchen)
	if got["department"] != model.DepartmentKitchen {
		t.Errorf("unexpected filter: %v", got)
	}
}
