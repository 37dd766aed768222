// Package nav holds the client's route table and the navigation gates that
// protect it. Guards are pure decision functions over the current session
// and a destination's declared requirements; they never touch the network.
package nav

import "github.com/investbank/pipeline-client/internal/core/domain"

// Destination is a navigable view with its access requirements. A zero
// RequiredRole means any authenticated identity may enter.
type Destination struct {
	Name         string
	Path         string
	Protected    bool
	RequiredRole domain.Role
}

// The application's route table. LoginDest is the unauthenticated entry
// point and DealListDest the default authenticated landing page.
var (
	LoginDest      = Destination{Name: "login", Path: "/login"}
	DealListDest   = Destination{Name: "deals", Path: "/deals", Protected: true}
	DealNewDest    = Destination{Name: "deal-new", Path: "/deals/new", Protected: true}
	DealDetailDest = Destination{Name: "deal-detail", Path: "/deals/:id", Protected: true}
	DealEditDest   = Destination{Name: "deal-edit", Path: "/deals/:id/edit", Protected: true}
	AdminUsersDest = Destination{Name: "admin-users", Path: "/admin/users", Protected: true, RequiredRole: domain.RoleAdmin}
)

// Routes lists every destination, for surfaces that render navigation.
var Routes = []Destination{
	LoginDest,
	DealListDest,
	DealNewDest,
	DealDetailDest,
	DealEditDest,
	AdminUsersDest,
}
