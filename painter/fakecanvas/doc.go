// Package fakecanvas é uma réplica local e em memória da API do canvas:
// login, leitura de pixel e pintura com cooldown por usuário (429 + wait_seconds).
//
// Serve para testes de ponta a ponta e para rodar o daemon sem tocar no
// serviço real (ver cmd/fakecanvas).
package fakecanvas
