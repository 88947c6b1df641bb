/*
Package noise synthesizes random “noise” names below a base domain, in order to
drown genuine knocks in a stream of plausible-looking subdomain queries.

A [Generator] draws between [Spec.MinLabels] and [Spec.MaxLabels] distinct
labels from a label pool, optionally appends a one or two digit number to one
of them, joins them with either "." or "-", and finally prepends the result to
the base domain:

	gen, _ := noise.NewGenerator(noise.Spec{Labels: []string{"mail", "vpn", "dev"}}, nil)
	gen.Name("corp.net") // for instance, "vpn-mail7.corp.net"
*/
package noise
