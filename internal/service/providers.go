package service

import (
	"github.com/pkg/errors"

	"github.com/fsdevblog/groph-pay/internal/domain"
)

// Provider внешний банковский провайдер пополнений. RedirectURL страница
// провайдера, на которую уходит юзер для завершения платежа; корреляционный
// токен передается в query параметре.
type Provider struct {
	Name        string
	RedirectURL string
}

// supportedProviders закрытый список провайдеров. Уведомления от кого-либо
// вне списка невозможны: заявка с неизвестным провайдером не создается.
var supportedProviders = map[string]Provider{
	"HDFC Bank": {Name: "HDFC Bank", RedirectURL: "https://netbanking.hdfcbank.com/netbanking"},
	"Axis Bank": {Name: "Axis Bank", RedirectURL: "https://www.axisbank.com/"},
}

// ProviderByName возвращает провайдера по имени либо ошибку domain.ErrUnknownProvider.
func ProviderByName(name string) (Provider, error) {
	provider, ok := supportedProviders[name]
	if !ok {
		return Provider{}, errors.WithMessagef(domain.ErrUnknownProvider, "provider %q", name)
	}
	return provider, nil
}

// ProviderNames возвращает имена поддерживаемых провайдеров.
func ProviderNames() []string {
	names := make([]string, 0, len(supportedProviders))
	for name := range supportedProviders {
		names = append(names, name)
	}
	return names
}
