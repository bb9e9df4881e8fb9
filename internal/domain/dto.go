package domain

type DepositStatusType string

const (
	DepositStatusPending DepositStatusType = "Pending"
	DepositStatusSuccess DepositStatusType = "Success"
	DepositStatusFailure DepositStatusType = "Failure"
)

type DirectionType string

const (
	DirectionIncoming DirectionType = "incoming"
	DirectionOutgoing DirectionType = "outgoing"
)
