package domain

// Activity es el eco de una eco-acción registrada. No se persiste:
// el endpoint valida y devuelve el registro generado.
type Activity struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	ActionType   string `json:"action_type"`
	Timestamp    string `json:"timestamp"`
	ImpactPoints int    `json:"impact_points"`
}
