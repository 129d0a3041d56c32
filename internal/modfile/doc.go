// Package modfile reads module fragments and dependency libraries from YAML
// and writes the linked declaration table back out.
//
// A module file stands in for the frontend: it lists source files and the
// declarations translated from them.
//
//	module: demo
//	files:
//	  - path: app/Main.kt
//	    package: app
//	    declarations:
//	      - kind: fun
//	        name: main
//	        references: [kotlin/String]
//	        body: ["println(greet())"]
//	      - kind: class
//	        name: Greeter
//	        members:
//	          - kind: fun
//	            name: greet
//	            returns: kotlin/String
//
// Files that are parts of one multifile facade carry `multifile: true` and a
// shared `jvmName`.
//
// A library file lists the signatures a dependency can supply:
//
//	name: stdlib
//	exports:
//	  - symbol: kotlin/String
//	    kind: class
//	  - symbol: kotlin/io/println(Any)
//	    kind: fun
//	    params: [{name: message, type: kotlin/Any}]
package modfile
