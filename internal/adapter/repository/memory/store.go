// Package memory fornece implementações em memória dos repositórios de
// domínio. É a fonte de dados usada quando nenhum banco está configurado
// (modo demonstração) e pelos testes, mantendo a mesma semântica do
// PostgreSQL: operações compostas são atômicas sob o mutex do Store.
package memory

import (
	"sync"

	"github.com/dmtavares/pdv-varejo/internal/domain/customer"
	"github.com/dmtavares/pdv-varejo/internal/domain/payment"
	"github.com/dmtavares/pdv-varejo/internal/domain/product"
	"github.com/dmtavares/pdv-varejo/internal/domain/sale"
	"github.com/dmtavares/pdv-varejo/internal/domain/stock"
	"github.com/dmtavares/pdv-varejo/internal/domain/user"
)

// Store mantém todos os dados em memória, compartilhado pelos
// repositórios. O número de venda é um contador protegido pelo mutex,
// equivalente à sequence do banco.
type Store struct {
	mu           sync.RWMutex
	products     map[string]*product.Product
	customers    map[string]*customer.Customer
	users        map[string]*user.User
	sales        map[string]*sale.Sale
	payments     map[string]*payment.Payment
	movements    []*stock.Movement
	saleNumber   int64
}

// NewStore cria um novo Store vazio
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*product.Product),
		customers: make(map[string]*customer.Customer),
		users:     make(map[string]*user.User),
		sales:     make(map[string]*sale.Sale),
		payments:  make(map[string]*payment.Payment),
	}
}

// nextSaleNumber atribui o próximo número de venda. Deve ser chamado com
// o mutex de escrita adquirido.
func (s *Store) nextSaleNumber() int64 {
	s.saleNumber++
	return s.saleNumber
}
