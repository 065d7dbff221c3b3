package tenants

// Nicho is the business sector of an empresa.
type Nicho string

const (
	NichoFarmacia    Nicho = "farmacia"
	NichoVeterinaria Nicho = "veterinaria"
)

// Empresa is the tenant record a user belongs to (GET /empresas/me/).
// Tenant isolation happens in the backend; the dashboard only displays it.
type Empresa struct {
	ID        int64  `json:"id,omitempty"`
	Nombre    string `json:"nombre"`
	Nicho     Nicho  `json:"nicho,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Email     string `json:"email,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// NichoLabel is the human readable sector name
func (e *Empresa) NichoLabel() string {
	switch e.Nicho {
	case NichoFarmacia:
		return "Farmacia"
	case NichoVeterinaria:
		return "Veterinaria"
	default:
		return string(e.Nicho)
	}
}
