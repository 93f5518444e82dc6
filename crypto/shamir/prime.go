package shamir

import "math/big"

// safePrime2048Decimal is the fixed 2048-bit safe prime field used for
// every key ceremony: the 2048-bit MODP group prime of RFC 3526 section 3,
// written in decimal.
const safePrime2048Decimal = "32317006071311007300338913926423828248817941241140239112842009751400741706634354222619689417363569347117901737909704191754605873209195028853758986185622153" +
	"21217541251490177452027023579607823624888424618947758764110592864609941172324542662252219323054091903768052423551912567971587011700105805587765103886184728" +
	"02579760549035697325615261670813393617995413364765591603683178967290731783845896806396719009772021941686472258710314113364293195361934716365332097170774482" +
	"27988588565369208645296636077250268955505928362751121174096972998068410554359584866583291642136218231078990999448652468262416972035911852507045361090559"

// SafePrime returns the shared 2048-bit safe prime field modulus, p = 2q+1.
func SafePrime() *big.Int {
	p, ok := new(big.Int).SetString(safePrime2048Decimal, 10)
	if !ok {
		panic("shamir: malformed safe prime constant")
	}
	return p
}
