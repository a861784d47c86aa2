package authz

import "testing"

func TestCanReviewTicket(t *testing.T) {
	owner := Actor{ID: 1, Role: RoleHeadAdmin}
	tests := []struct {
		name  string
		actor Actor
		head  uint64
		want  bool
	}{
		{"owning head", owner, 1, true},
		{"foreign head", owner, 2, false},
		{"student", Actor{ID: 1, Role: RoleStudent}, 1, false},
		{"super admin does not review tickets", Actor{ID: 1, Role: RoleSuperAdmin}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReviewTicket(tt.actor, tt.head); got != tt.want {
				t.Fatalf("CanReviewTicket(%+v, %d) = %v, want %v", tt.actor, tt.head, got, tt.want)
			}
		})
	}
}

func TestCanCancelTicket(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		bookBy uint64
		want   bool
	}{
		{"own booking", Actor{ID: 7, Role: RoleStudent}, 7, true},
		{"someone else's booking", Actor{ID: 7, Role: RoleStudent}, 8, false},
		{"head admin", Actor{ID: 1, Role: RoleHeadAdmin}, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCancelTicket(tt.actor, tt.bookBy); got != tt.want {
				t.Fatalf("CanCancelTicket(%+v, %d) = %v, want %v", tt.actor, tt.bookBy, got, tt.want)
			}
		})
	}
}

func TestCanViewTicket(t *testing.T) {
	if !CanViewTicket(Actor{ID: 7, Role: RoleStudent}, 7) {
		t.Fatal("students should read their own bookings")
	}
	if CanViewTicket(Actor{ID: 7, Role: RoleStudent}, 8) {
		t.Fatal("students must not read other users' bookings")
	}
	if !CanViewTicket(Actor{ID: 1, Role: RoleHeadAdmin}, 8) {
		t.Fatal("head admins should read any booking")
	}
}

func TestCanManagePoster(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		head  uint64
		want  bool
	}{
		{"owning head", Actor{ID: 1, Role: RoleHeadAdmin}, 1, true},
		{"foreign head", Actor{ID: 1, Role: RoleHeadAdmin}, 2, false},
		{"student", Actor{ID: 1, Role: RoleStudent}, 1, false},
		{"super admin does not manage posters", Actor{ID: 1, Role: RoleSuperAdmin}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManagePoster(tt.actor, tt.head); got != tt.want {
				t.Fatalf("CanManagePoster(%+v, %d) = %v, want %v", tt.actor, tt.head, got, tt.want)
			}
		})
	}
}

func TestCanViewEventRequest(t *testing.T) {
	if !CanViewEventRequest(Actor{ID: 3, Role: RoleHeadAdmin}, 3) {
		t.Fatal("requesting head should read their own request")
	}
	if CanViewEventRequest(Actor{ID: 3, Role: RoleHeadAdmin}, 4) {
		t.Fatal("foreign head must not read another head's request")
	}
	if !CanViewEventRequest(Actor{ID: 9, Role: RoleSuperAdmin}, 4) {
		t.Fatal("super admin should read any request")
	}
	if CanViewEventRequest(Actor{ID: 3, Role: RoleStudent}, 3) {
		t.Fatal("students must not read event requests")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleStudent, RoleHeadAdmin, RoleSuperAdmin} {
		if !ValidRole(r) {
			t.Fatalf("ValidRole(%q) = false, want true", r)
		}
	}
	for _, r := range []string{"", "admin", "Student", "head"} {
		if ValidRole(r) {
			t.Fatalf("ValidRole(%q) = true, want false", r)
		}
	}
}

func TestCanManageClub(t *testing.T) {
	if !CanManageClub(Actor{ID: 1, Role: RoleHeadAdmin}, 1) {
		t.Fatal("owning head should manage their club")
	}
	if CanManageClub(Actor{ID: 1, Role: RoleHeadAdmin}, 2) {
		t.Fatal("foreign head must not manage another club")
	}
	if !CanManageClub(Actor{ID: 9, Role: RoleSuperAdmin}, 2) {
		t.Fatal("super admin should manage any club")
	}
	if CanManageClub(Actor{ID: 2, Role: RoleStudent}, 2) {
		t.Fatal("students must not manage clubs")
	}
}

func TestIsAndOwns(t *testing.T) {
	a := Actor{ID: 5, Role: RoleStudent}
	if !a.Is(RoleStudent, RoleHeadAdmin) {
		t.Fatal("Is should match any listed role")
	}
	if a.Is(RoleHeadAdmin) {
		t.Fatal("Is must not match absent roles")
	}
	if !a.Owns(5) || a.Owns(6) {
		t.Fatal("Owns should compare actor id")
	}
}
