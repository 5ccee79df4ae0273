// Package application contém os casos de uso do pintor: a máquina de estados
// de colocação (sorteia pixel, consulta o oráculo, pinta) e o portão de login.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Placement.Attempt(ctx, session) retorna um Outcome (next job / done / wait).
package application
