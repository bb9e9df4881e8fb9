package repoargs

type CreateTransfer struct {
	FromUserID int64
	ToUserID   int64
	Amount     int64
}
