package httphandlers

type ConfigResponse struct {
	Version string
	Config  interface{}
}

type PowerFactorResponse struct {
	PowerFactor string
	Error       string `json:",omitempty"`
}

type UnlockDateResponse struct {
	UnlockDate  string
	LockSeconds int64
}

type ValidationResponse struct {
	IsValid bool
	Error   string `json:",omitempty"`
	Warning string `json:",omitempty"`
}

type EstimateRequest struct {
	Amount        string `json:"amount" binding:"required"`
	LockValue     string `json:"lockValue" binding:"required"`
	LockUnit      string `json:"lockUnit" binding:"required"`
	TokenDecimals int32  `json:"tokenDecimals"`
	PowerFactor   string `json:"powerFactor"`
}

type EstimateResponse struct {
	EstimatedRewards string
	PowerFactor      string
	UnlockDate       string `json:",omitempty"`
	State            string
	IsValid          bool
	Error            string `json:",omitempty"`
	Warning          string `json:",omitempty"`
}

type StakeRequest struct {
	Amount    string `json:"amount" binding:"required"`
	LockValue string `json:"lockValue" binding:"required"`
	LockUnit  string `json:"lockUnit" binding:"required"`
}

type WithdrawRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type ClaimRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Fee      string `json:"fee"`
}

type TxResponse struct {
	Status  string
	Warning string `json:",omitempty"`
}

type MonitorRequest struct {
	Token    string `json:"token" binding:"required"`
	Account  string `json:"account" binding:"required"`
	Expected string `json:"expected" binding:"required"`
}

type MonitorResponse struct {
	ID    string
	State string
}
