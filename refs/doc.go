// Package refs resolves JSON references across data files.
//
// A reference is a mapping whose "$ref" property is a string:
//
//	planets:
//	  Earth:
//	    $ref: planets/earth.yml
//	  Mars:
//	    $ref: ./planets/all.yml#/Mars
//
// [Resolve] loads a root file and replaces every relative or remote
// reference with the value it points to. Local references ("#/definitions/x")
// are left in place. Relative references resolve against the directory, or
// URL, of the document that contains them, so references inside referenced
// files work as expected.
//
// Referenced documents are loaded concurrently in breadth-first waves and
// each distinct document is loaded once per call. The [Result] reports every
// followed reference in discovery order, keyed by the JSON pointer of the
// reference object in the resolved document.
//
// A reference that leads back into a chain already being expanded is left as
// a "$ref" object and reported with [Ref.Circular] set.
//
// Remote references (http and https) are refused unless [WithRemote] or
// [WithHTTPClient] is given.
package refs
