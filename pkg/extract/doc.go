// Package extract turns raw profile page and endpoint response bodies into a
// canonical ProfileRecord.
//
// Three strategies are available:
//
//   - JSON_Endpoint reads graphql.user or data.user from an endpoint response
//   - SharedData reads the window._sharedData object embedded in a profile page
//   - MetaTags reads the OpenGraph title, description and image of a profile page
//
// A Pipeline runs the enabled strategies over a list of RawContent values and
// returns the first success together with the method that produced it, or a
// failure listing why every source missed. The package performs no I/O and
// keeps no state between calls.
//
//	p := extract.NewDefault()
//	res := p.Run([]extract.RawContent{
//	    {Kind: extract.KindJSON, Body: apiBody, Origin: apiURL},
//	    {Kind: extract.KindHTML, Body: pageBody, Origin: pageURL},
//	})
//	if res.Success {
//	    fmt.Println(res.Method, res.Data.Followers)
//	}
package extract
