package domain

import "testing"

func TestRole_Valid(t *testing.T) {
	t.Parallel()

	for _, r := range []Role{RoleClient, RoleCourier, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("role %q must be valid", r)
		}
	}
	if Role("manager").Valid() {
		t.Fatal("unknown role must be invalid")
	}
}

func TestRole_Provisionable(t *testing.T) {
	t.Parallel()

	if !RoleClient.Provisionable() || !RoleCourier.Provisionable() {
		t.Fatal("client and courier must be provisionable")
	}
	if RoleAdmin.Provisionable() {
		t.Fatal("admin must not be provisionable")
	}
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	valid := []string{"+70000000001", "+79991234567"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Fatalf("phone %q must be valid", phone)
		}
	}

	invalid := []string{"", "70000000001", "+7000", "+7000000000a", "+700000000012"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Fatalf("phone %q must be invalid", phone)
		}
	}
}
