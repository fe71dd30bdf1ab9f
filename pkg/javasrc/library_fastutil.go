package javasrc

import (
	"fmt"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/specialize"
)

const fastutilRoot = "it.unimi.dsi.fastutil."

// fastFamily is one fastutil element family: a primitive such as Int, or the
// generic Object and Reference families.
type fastFamily struct {
	// Type is the class-name stem ("Int", "Object").
	Type string
	pkg  string
	prim string
	box  string
}

func (family fastFamily) generic() bool {
	return family.prim == ""
}

// arg is the type argument the family contributes to a JDK supertype. Generic
// families contribute the type variable tv.
func (family fastFamily) arg(tv string) string {
	if family.generic() {
		return tv
	}

	return family.box
}

// elem is the element type as it appears in type-specific signatures.
func (family fastFamily) elem(tv string) string {
	if family.generic() {
		return tv
	}

	return family.prim
}

func (family fastFamily) class(stem string) string {
	return fastutilRoot + family.pkg + "." + family.Type + stem
}

var primitiveFamilies = func() []fastFamily {
	out := make([]fastFamily, 0, len(jtype.Primitives))

	for _, kind := range jtype.Primitives {
		label := specialize.Abbrev(jtype.Primitive(kind))
		out = append(out, fastFamily{
			Type: label,
			pkg:  strings.ToLower(label) + "s",
			prim: kind.String(),
			box:  jtype.BoxName(kind),
		})
	}

	return out
}()

var (
	objectFamily    = fastFamily{Type: "Object", pkg: "objects"}
	referenceFamily = fastFamily{Type: "Reference", pkg: "objects"}
)

// addFastutil declares the fastutil collections, functional interfaces and
// maps for every family.
func (lib *library) addFastutil() {
	lib.iface(fastutilRoot+"Function<K, V>", []string{"java.util.function.Function<K, V>"},
		"V get(java.lang.Object)",
		"V put(K, V)",
		"boolean containsKey(java.lang.Object)",
		"V remove(java.lang.Object)",
		"int size()",
		"void clear()",
	)

	for _, family := range primitiveFamilies {
		lib.addPrimitiveCollections(family)
	}

	lib.addObjectCollections(objectFamily)
	lib.addObjectCollections(referenceFamily)

	values := append(append([]fastFamily{}, primitiveFamilies...), objectFamily, referenceFamily)

	for _, key := range values {
		if key.prim == "boolean" {
			continue
		}

		for _, value := range values {
			lib.addMapFamily(key, value)
		}
	}
}

func (lib *library) addPrimitiveCollections(family fastFamily) {
	var (
		prim       = family.prim
		box        = family.box
		iterable   = family.class("Iterable")
		iterator   = family.class("Iterator")
		collection = family.class("Collection")
		list       = family.class("List")
		set        = family.class("Set")
		sortedSet  = family.class("SortedSet")
		consumer   = family.class("Consumer")
		predicate  = family.class("Predicate")
		unary      = family.class("UnaryOperator")
		comparator = family.class("Comparator")
	)

	lib.functional(consumer, []string{fmt.Sprintf("java.util.function.Consumer<%s>", box)},
		fmt.Sprintf("void accept(%s)", prim))
	lib.functional(predicate, []string{fmt.Sprintf("java.util.function.Predicate<%s>", box)},
		fmt.Sprintf("boolean test(%s)", prim))
	lib.functional(unary, []string{fmt.Sprintf("java.util.function.UnaryOperator<%s>", box)},
		fmt.Sprintf("%[1]s apply(%[1]s)", prim))
	lib.functional(comparator, []string{fmt.Sprintf("java.util.Comparator<%s>", box)},
		fmt.Sprintf("int compare(%[1]s, %[1]s)", prim),
		comparator+" reversed()")
	lib.concrete(family.class("Comparators"), nil,
		fmt.Sprintf("static final %s NATURAL_COMPARATOR", comparator),
		fmt.Sprintf("static final %s OPPOSITE_COMPARATOR", comparator),
	)
	lib.concrete(fastutilRoot+family.pkg+".Abstract"+family.Type+"Comparator", []string{comparator},
		"<init>()")

	lib.iface(iterator, []string{fmt.Sprintf("java.util.Iterator<%s>", box)},
		fmt.Sprintf("%s next%s()", prim, family.Type))
	lib.iface(iterable, []string{fmt.Sprintf("java.lang.Iterable<%s>", box)},
		iterator+" iterator()",
		fmt.Sprintf("void forEach(%s)", consumer),
	)
	lib.iface(collection, []string{fmt.Sprintf("java.util.Collection<%s>", box), iterable},
		fmt.Sprintf("boolean add(%s)", prim),
		fmt.Sprintf("boolean contains(%s)", prim),
		fmt.Sprintf("boolean rem(%s)", prim),
		fmt.Sprintf("boolean addAll(%s)", collection),
		fmt.Sprintf("boolean removeIf(%s)", predicate),
		fmt.Sprintf("%s[] to%sArray()", prim, family.Type),
		fmt.Sprintf("%[1]s[] to%[2]sArray(%[1]s[])", prim, family.Type),
		fmt.Sprintf("%[1]s[] toArray(%[1]s[])", prim),
		iterator+" iterator()",
	)
	lib.iface(list, []string{fmt.Sprintf("java.util.List<%s>", box), collection},
		fmt.Sprintf("%s get%s(int)", prim, family.Type),
		fmt.Sprintf("%[1]s set(int, %[1]s)", prim),
		fmt.Sprintf("void add(int, %s)", prim),
		fmt.Sprintf("%s remove%s(int)", prim, family.Type),
		fmt.Sprintf("int indexOf(%s)", prim),
		fmt.Sprintf("int lastIndexOf(%s)", prim),
		fmt.Sprintf("void sort(%s)", comparator),
		fmt.Sprintf("void unstableSort(%s)", comparator),
		fmt.Sprintf("void unstableSort(java.util.Comparator<? super %s>)", box),
		fmt.Sprintf("void replaceAll(%s)", unary),
		fmt.Sprintf("%s subList(int, int)", list),
		fmt.Sprintf("static %s of()", list),
		fmt.Sprintf("static %s of(%s...)", list, prim),
	)
	lib.iface(set, []string{fmt.Sprintf("java.util.Set<%s>", box), collection},
		fmt.Sprintf("boolean remove(%s)", prim),
		fmt.Sprintf("static %s of()", set),
		fmt.Sprintf("static %s of(%s...)", set, prim),
	)
	lib.iface(sortedSet, []string{set, fmt.Sprintf("java.util.SortedSet<%s>", box)},
		fmt.Sprintf("%s first%s()", prim, family.Type),
		fmt.Sprintf("%s last%s()", prim, family.Type),
		comparator+" comparator()",
	)

	ctors := []string{
		"<init>()",
		"<init>(int)",
		fmt.Sprintf("<init>(java.util.Collection<? extends %s>)", box),
		fmt.Sprintf("<init>(%s)", collection),
		fmt.Sprintf("<init>(%s[])", prim),
	}

	lib.concrete(family.class("ArrayList"), []string{list}, append(ctors, "void trim()")...)
	lib.concrete(family.class("OpenHashSet"), []string{set}, append(ctors, "<init>(int, float)", "boolean trim()")...)
	lib.concrete(family.class("LinkedOpenHashSet"), []string{set}, ctors...)
	lib.concrete(family.class("ArraySet"), []string{set}, ctors...)

	treeCtors := []string{
		"<init>()",
		fmt.Sprintf("<init>(java.util.Comparator<? super %s>)", box),
		fmt.Sprintf("<init>(%s)", collection),
		fmt.Sprintf("<init>(%s[])", prim),
	}

	lib.concrete(family.class("RBTreeSet"), []string{sortedSet}, treeCtors...)
	lib.concrete(family.class("AVLTreeSet"), []string{sortedSet}, treeCtors...)
}

func (lib *library) addObjectCollections(family fastFamily) {
	collection := family.class("Collection")
	set := family.class("Set")

	lib.iface(family.class("Iterator<K>"), []string{"java.util.Iterator<K>"})
	lib.iface(family.class("Iterable<K>"), []string{"java.lang.Iterable<K>"},
		family.class("Iterator<K>")+" iterator()")
	lib.iface(collection+"<K>", []string{"java.util.Collection<K>", family.class("Iterable<K>")})
	lib.iface(family.class("List<K>"), []string{"java.util.List<K>", collection + "<K>"},
		"void unstableSort(java.util.Comparator<? super K>)")
	lib.iface(set+"<K>", []string{"java.util.Set<K>", collection + "<K>"})
	lib.iface(family.class("SortedSet<K>"), []string{set + "<K>", "java.util.SortedSet<K>"})

	ctors := []string{"<init>()", "<init>(int)", "<init>(java.util.Collection<? extends K>)", "<init>(K[])"}

	lib.concrete(family.class("ArrayList<K>"), []string{family.class("List<K>")}, ctors...)
	lib.concrete(family.class("OpenHashSet<K>"), []string{set + "<K>"}, ctors...)
	lib.concrete(family.class("LinkedOpenHashSet<K>"), []string{set + "<K>"}, ctors...)
	lib.concrete(family.class("RBTreeSet<K>"), []string{family.class("SortedSet<K>")},
		"<init>()", "<init>(java.util.Comparator<? super K>)", "<init>(java.util.Collection<? extends K>)")
}

// setOf is the type-specific set class holding elements of family.
func setOf(family fastFamily, tv string) string {
	if family.generic() {
		return fmt.Sprintf("%s<%s>", objectFamily.class("Set"), tv)
	}

	return family.class("Set")
}

func collectionOf(family fastFamily, tv string) string {
	if family.generic() {
		return fmt.Sprintf("%s<%s>", objectFamily.class("Collection"), tv)
	}

	return family.class("Collection")
}

// addMapFamily declares the key-to-value function, map and map
// implementations of one key and value family, such as Int2ObjectMap.
func (lib *library) addMapFamily(key, value fastFamily) {
	stem := key.Type + "2" + value.Type

	var params []string
	if key.generic() {
		params = append(params, "K")
	}

	if value.generic() {
		params = append(params, "V")
	}

	generic := func(name string) string {
		name = fastutilRoot + key.pkg + "." + name
		if len(params) == 0 {
			return name
		}

		return name + "<" + strings.Join(params, ", ") + ">"
	}

	var (
		keyArg    = key.arg("K")
		valueArg  = value.arg("V")
		keyElem   = key.elem("K")
		valueElem = value.elem("V")
		function  = generic(stem + "Function")
		mapType   = generic(stem + "Map")
		sorted    = generic(stem + "SortedMap")
		entry     = generic(stem + "Map.Entry")
		accessor  = specialize.AccessorName(familyDescriptor(key), familyDescriptor(value), "EntrySet")
	)

	functionMembers := []string{
		fmt.Sprintf("%s defaultReturnValue()", valueElem),
		fmt.Sprintf("void defaultReturnValue(%s)", valueElem),
	}

	lookupKey := keyElem
	if key.generic() {
		lookupKey = jtype.ObjectName
	}

	if value.generic() {
		if !key.generic() {
			functionMembers = append(functionMembers,
				fmt.Sprintf("%s get(%s)", valueElem, keyElem),
				fmt.Sprintf("%s put(%s, %s)", valueElem, keyElem, valueElem),
				fmt.Sprintf("%s remove(%s)", valueElem, keyElem),
				fmt.Sprintf("boolean containsKey(%s)", keyElem),
			)
		}
	} else {
		functionMembers = append(functionMembers,
			fmt.Sprintf("%s get%s(%s)", valueElem, value.Type, lookupKey),
			fmt.Sprintf("%s put(%s, %s)", valueElem, keyElem, valueElem),
			fmt.Sprintf("%s remove%s(%s)", valueElem, value.Type, lookupKey),
			fmt.Sprintf("%s getOrDefault(%s, %s)", valueElem, lookupKey, valueElem),
		)

		if !key.generic() {
			functionMembers = append(functionMembers, fmt.Sprintf("boolean containsKey(%s)", keyElem))
		}
	}

	lib.iface(function, []string{fmt.Sprintf("%sFunction<%s, %s>", fastutilRoot, keyArg, valueArg)}, functionMembers...)

	entryMembers := []string{}
	if !key.generic() {
		entryMembers = append(entryMembers, fmt.Sprintf("%s get%sKey()", keyElem, key.Type))
	}

	if !value.generic() {
		entryMembers = append(entryMembers, fmt.Sprintf("%s get%sValue()", valueElem, value.Type))
	}

	lib.iface(entry, []string{fmt.Sprintf("java.util.Map.Entry<%s, %s>", keyArg, valueArg)}, entryMembers...)

	mapMembers := []string{
		fmt.Sprintf("%s<%s> %s()", objectFamily.class("Set"), entry, accessor),
		fmt.Sprintf("%s keySet()", setOf(key, "K")),
		fmt.Sprintf("%s values()", collectionOf(value, "V")),
	}

	if !value.generic() {
		mapMembers = append(mapMembers, fmt.Sprintf("boolean containsValue(%s)", valueElem))
	}

	lib.iface(mapType, []string{function, fmt.Sprintf("java.util.Map<%s, %s>", keyArg, valueArg)}, mapMembers...)
	lib.iface(sorted, []string{mapType, fmt.Sprintf("java.util.SortedMap<%s, %s>", keyArg, valueArg)})

	hashCtors := []string{
		"<init>()",
		"<init>(int)",
		"<init>(int, float)",
		fmt.Sprintf("<init>(java.util.Map<? extends %s, ? extends %s>)", keyArg, valueArg),
		fmt.Sprintf("<init>(%s)", mapType),
	}
	treeCtors := []string{
		"<init>()",
		fmt.Sprintf("<init>(java.util.Comparator<? super %s>)", keyArg),
		fmt.Sprintf("<init>(java.util.Map<? extends %s, ? extends %s>)", keyArg, valueArg),
	}

	lib.concrete(generic(stem+"OpenHashMap"), []string{mapType}, append(hashCtors, "boolean trim()")...)
	lib.concrete(generic(stem+"LinkedOpenHashMap"), []string{mapType}, hashCtors...)
	lib.concrete(generic(stem+"ArrayMap"), []string{mapType}, "<init>()", "<init>(int)")
	lib.concrete(generic(stem+"RBTreeMap"), []string{sorted}, treeCtors...)
	lib.concrete(generic(stem+"AVLTreeMap"), []string{sorted}, treeCtors...)
}

// familyDescriptor is a representative type argument for a family, as fed
// to the name synthesizer.
func familyDescriptor(family fastFamily) *jtype.Descriptor {
	if family.generic() {
		return jtype.Ref(jtype.ObjectName)
	}

	return jtype.Ref(family.box)
}
