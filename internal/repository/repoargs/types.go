package repoargs

type RepositoryName string

const (
	UserRepoName           RepositoryName = "user"
	AccountRepoName        RepositoryName = "account"
	TransferRepoName       RepositoryName = "transfer"
	DepositRequestRepoName RepositoryName = "deposit_request"
)
