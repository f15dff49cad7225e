package models

import "testing"

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{FirstName: "Tendai", LastName: "Moyo"}, "Tendai Moyo"},
		{User{FirstName: "Tendai"}, "Tendai"},
		{User{LastName: "Moyo"}, "Moyo"},
		{User{}, ""},
	}
	for _, tt := range tests {
		if got := tt.user.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestUser_IsAdmin(t *testing.T) {
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin should be admin")
	}
	if (&User{Role: RoleCustomer}).IsAdmin() {
		t.Error("customer should not be admin")
	}
	var nobody *User
	if nobody.IsAdmin() {
		t.Error("nil user should not be admin")
	}
}
