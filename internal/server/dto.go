package server

// Request bodies. Responses reuse the domain types directly; the wire shape
// and the stored shape are the same document.

type CreateSpaceRequest struct {
	Name        string `json:"name" minLength:"1" example:"Garage"`
	Description string `json:"description,omitempty"`
	Goal        string `json:"goal,omitempty"`
	BeforeImage string `json:"before_image,omitempty"`
	AfterImage  string `json:"after_image,omitempty"`
}

type UpdateSpaceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Goal        *string `json:"goal,omitempty"`
	BeforeImage *string `json:"before_image,omitempty"`
	AfterImage  *string `json:"after_image,omitempty"`
}

type AddClockedTimeRequest struct {
	Minutes int `json:"minutes" example:"30"`
}

type CreateActionRequest struct {
	SpaceID     string `json:"space_id" minLength:"1"`
	Name        string `json:"name" minLength:"1" example:"Empty one shelf"`
	Description string `json:"description,omitempty"`
	Points      int    `json:"points,omitempty" example:"5"`
}

type UpdateActionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Points      *int    `json:"points,omitempty"`
}

type CreateQuestRequest struct {
	SpaceID       string   `json:"space_id" minLength:"1"`
	Name          string   `json:"name" minLength:"1" example:"Sort the toolbox"`
	Description   string   `json:"description,omitempty"`
	PointsPerStep int      `json:"points_per_step,omitempty" example:"10"`
	StepNames     []string `json:"step_names" minItems:"1"`
}

type UpdateQuestRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	PointsPerStep *int    `json:"points_per_step,omitempty"`
}

type LogWasteRequest struct {
	SpaceID     string   `json:"space_id" minLength:"1"`
	CategoryIDs []string `json:"category_ids" minItems:"1" example:"waiting,defects"`
}

type CreateCommentRequest struct {
	SpaceID string `json:"space_id" minLength:"1"`
	Text    string `json:"text,omitempty"`
	Image   string `json:"image,omitempty"`
}

type CreateTodoRequest struct {
	SpaceID     string `json:"space_id" minLength:"1"`
	Description string `json:"description" minLength:"1"`
	BeforeImage string `json:"before_image,omitempty"`
}

type TodoBeforeImageRequest struct {
	Image string `json:"image" minLength:"1"`
}

type CompleteTodoRequest struct {
	AfterImage string `json:"after_image" minLength:"1"`
}
