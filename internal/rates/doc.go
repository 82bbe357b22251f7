// Package rates provides temperature- and mass-dependence models for
// biological rates in bioenergetic food-web models.
//
// Each model implements the [Model] interface, mapping body mass and
// temperature to a rate for a given metabolic [Role]:
//
//   - [NoEffect]: allometric scaling only, temperature ignored
//   - [ExtendedEppley]: quadratic-truncated exponential (Eppley 1972)
//   - [BoltzmannArrhenius]: exponential Arrhenius response (Gillooly et al. 2001)
//   - [JohnsonLewin]: Arrhenius response with high-temperature deactivation
//   - [Gaussian]: hump-shaped or U-shaped thermal response
//
// Any model can fill any rate slot (growth, metabolism, attack rate,
// handling time); the parameter builder materializes per-species vectors
// with [VectorOf] and per-link matrices with [MatrixOf] once, so the
// derivative path never evaluates these functions.
package rates
