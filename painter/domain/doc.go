// Package domain define contratos e tipos de domínio do pintor de canvas.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros da máquina de estados
// e desacoplar as regras de colocação de pixels dos detalhes da API remota.
package domain
