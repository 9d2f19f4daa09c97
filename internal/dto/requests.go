package dto

// RegisterRequest — тело запроса регистрации. Роль не принимается:
// она подтверждается отдельным запросом после регистрации.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ConfirmRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UpdateProfileRequest struct {
	Fullname    *string  `json:"fullname"`
	Profession  *string  `json:"profession"`
	Experience  *string  `json:"experience"`
	Skills      []string `json:"skills"`
	CompanyName *string  `json:"company_name"`
	PhotoURL    *string  `json:"photo_url"`
}

// Бюджет принимается десятичной строкой ("1000.00"),
// как и все денежные суммы.
type CreateJobRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Budget         string   `json:"budget" binding:"required"`
	RequiredSkills []string `json:"required_skills"`
	Deadline       string   `json:"deadline"`
}

type RenameJobRequest struct {
	Title string `json:"title" binding:"required"`
}

type SetJobDescriptionRequest struct {
	Description string `json:"description" binding:"required"`
}

type SetJobBudgetRequest struct {
	Budget string `json:"budget" binding:"required"`
}

type SetJobDeadlineRequest struct {
	Deadline string `json:"deadline" binding:"required"`
}

type SetJobSkillsRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateApplicationRequest struct {
	Proposal     string `json:"proposal" binding:"required"`
	ProposedRate string `json:"proposed_rate" binding:"required"`
}

// Денежные суммы принимаются десятичной строкой ("125.50"),
// чтобы не терять точность на float64.
type InitiateDepositRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type ConfirmDepositRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type WithdrawRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type ReleaseEscrowRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
	FreelancerID  string `json:"freelancer_id" binding:"required,uuid"`
}

type CreateReviewRequest struct {
	Comment            string `json:"comment" binding:"required"`
	ServiceAsDescribed int    `json:"service_as_described" binding:"required,min=1,max=5"`
	RecommendToAFriend int    `json:"recommend_to_a_friend" binding:"required,min=1,max=5"`
	CommunicationLevel int    `json:"communication_level" binding:"required,min=1,max=5"`
}

type StartConversationRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type SendMessageRequest struct {
	Text     *string `json:"text"`
	ImageURL *string `json:"image_url"`
}
